// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package report gathers everything known about one disk into a single document.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

type Report struct {
	Device          string            `json:"device"`
	NodeName        string            `json:"node_name,omitempty"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Identify        *smart.Identify   `json:"identify,omitempty"`
	SizeBytes       uint64            `json:"size_bytes,omitempty"`
	SizeText        string            `json:"size_text,omitempty"`
	SmartAvailable  *bool             `json:"smart_available,omitempty"`
	Awake           *bool             `json:"awake,omitempty"`
	StatusPassed    *bool             `json:"status_passed,omitempty"`
	Overall         *smart.Overall    `json:"overall,omitempty"`
	TemperatureText string            `json:"temperature,omitempty"`
	PowerOnText     string            `json:"power_on,omitempty"`
	PowerCycles     *uint64           `json:"power_cycles,omitempty"`
	BadSectorsText  string            `json:"bad_sectors,omitempty"`
	Info            map[string]string `json:"info,omitempty"`
	Attributes      []smart.Attribute `json:"attributes,omitempty"`
	Errors          []string          `json:"errors,omitempty"`
}

// Build queries every accessor of d. Only a failure to read the SMART data
// at all is returned as an error; anything else ends up in Report.Errors.
func Build(ctx context.Context, d *smart.Disk, nodeName string) (*Report, error) {
	r := &Report{
		Device:      d.Path(),
		NodeName:    nodeName,
		GeneratedAt: time.Now().UTC(),
	}
	record := func(err error) bool {
		if err == nil {
			return true
		}
		if !errors.Is(err, smart.ErrNotAvailable) {
			r.Errors = append(r.Errors, err.Error())
		}
		return false
	}

	if err := d.ReadData(ctx); err != nil {
		return nil, err
	}

	if id, err := d.IdentifyData(ctx); record(err) {
		r.Identify = &id
	}
	if size, err := d.Size(ctx); record(err) {
		r.SizeBytes = size
		r.SizeText, _ = d.SizeText(ctx)
	}
	if ok, err := d.Available(ctx); record(err) {
		r.SmartAvailable = &ok
	}
	if awake, err := d.SleepMode(ctx); record(err) {
		r.Awake = &awake
	}
	if passed, err := d.Status(ctx); record(err) {
		r.StatusPassed = &passed
	}
	if o, err := d.OverallHealth(ctx); record(err) {
		r.Overall = &o
	}
	if s, err := d.TemperatureText(ctx); record(err) {
		r.TemperatureText = s
	}
	if s, err := d.PowerOnText(ctx); record(err) {
		r.PowerOnText = s
	}
	if n, err := d.PowerCycle(ctx); record(err) {
		r.PowerCycles = &n
	}
	if s, err := d.BadSectorsText(ctx); record(err) {
		r.BadSectorsText = s
	}
	if info, err := d.InfoText(ctx); record(err) {
		r.Info = info
	}
	if attrs, err := d.Attributes(ctx); record(err) {
		r.Attributes = make([]smart.Attribute, 0, len(attrs))
		for _, a := range attrs {
			r.Attributes = append(r.Attributes, a)
		}
		sort.Slice(r.Attributes, func(i, j int) bool { return r.Attributes[i].ID < r.Attributes[j].ID })
	}
	return r, nil
}

// ObjectKey is where the report is archived: <node>/<serial or device>/<timestamp>.json.
func (r *Report) ObjectKey(prefix string) string {
	name := strings.TrimPrefix(r.Device, "/dev/")
	if r.Identify != nil && r.Identify.Serial != "" {
		name = r.Identify.Serial
	}
	node := r.NodeName
	if node == "" {
		node = "unknown"
	}
	key := fmt.Sprintf("%s/%s/%s.json", node, strings.ReplaceAll(name, "/", "_"), r.GeneratedAt.Format("20060102T150405Z"))
	if prefix != "" {
		key = strings.TrimSuffix(prefix, "/") + "/" + key
	}
	return key
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "n/a"
	case *b:
		return "yes"
	}
	return "no"
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func optional(p *uint8) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *p)
}

// WriteText renders the report the way the dump command prints it.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Device:\t%s\n", r.Device)
	if r.Identify != nil {
		fmt.Fprintf(tw, "Model:\t%s\n", r.Identify.Model)
		fmt.Fprintf(tw, "Serial:\t%s\n", r.Identify.Serial)
		fmt.Fprintf(tw, "Firmware:\t%s\n", r.Identify.Firmware)
	}
	fmt.Fprintf(tw, "Size:\t%s\n", orNA(r.SizeText))
	fmt.Fprintf(tw, "SMART available:\t%s\n", yesNo(r.SmartAvailable))
	fmt.Fprintf(tw, "Awake:\t%s\n", yesNo(r.Awake))
	fmt.Fprintf(tw, "SMART status good:\t%s\n", yesNo(r.StatusPassed))
	overall := "n/a"
	if r.Overall != nil {
		overall = r.Overall.String()
	}
	fmt.Fprintf(tw, "Overall health:\t%s\n", overall)
	fmt.Fprintf(tw, "Temperature:\t%s\n", orNA(r.TemperatureText))
	fmt.Fprintf(tw, "Powered on:\t%s\n", orNA(r.PowerOnText))
	cycles := "n/a"
	if r.PowerCycles != nil {
		cycles = fmt.Sprintf("%d", *r.PowerCycles)
	}
	fmt.Fprintf(tw, "Power cycles:\t%s\n", cycles)
	fmt.Fprintf(tw, "Bad sectors:\t%s\n", orNA(r.BadSectorsText))

	if len(r.Info) > 0 {
		fmt.Fprintln(tw)
		keys := make([]string, 0, len(r.Info))
		for k := range r.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s:\t%s\n", k, r.Info[k])
		}
	}

	if len(r.Attributes) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ID\tNAME\tVALUE\tWORST\tTHRESH\tTYPE\tPRETTY\tWARN")
		for _, a := range r.Attributes {
			warn := ""
			if a.Warn {
				warn = "!"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.Name, optional(a.Value), optional(a.Worst), optional(a.Threshold), a.Type, a.HumanReadable, warn)
		}
	}

	for _, e := range r.Errors {
		fmt.Fprintf(tw, "error:\t%s\n", e)
	}
	return tw.Flush()
}
