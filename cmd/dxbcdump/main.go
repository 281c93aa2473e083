// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command dxbcdump prints the structure of DXBC shader containers.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gogpu/d3d10/dxbc"
)

func main() {
	var (
		sig     = flag.Bool("sig", false, "decode input and output signatures")
		verbose = flag.Bool("v", false, "log parser diagnostics to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: dxbcdump [-sig] [-v] file...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		dxbc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	failed := false
	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			log.Printf("dxbcdump: %v", err)
			failed = true
			continue
		}
		if err := dump(os.Stdout, name, data, *sig); err != nil {
			log.Printf("dxbcdump: %s: %v", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func dump(w io.Writer, name string, data []byte, sig bool) error {
	h, err := dxbc.ReadHeader(data)
	if err != nil {
		return err
	}
	chunks, err := dxbc.Chunks(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: version %d, %d bytes, %d chunks, checksum %s\n",
		name, h.Version, h.TotalSize, h.ChunkCount, hex.EncodeToString(h.Checksum[:]))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  TAG\tOFFSET\tSIZE")
	for _, c := range chunks {
		fmt.Fprintf(tw, "  %s\t%d\t%d\n", c.Tag, c.Offset, c.Size)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !sig {
		return nil
	}

	if s, err := dxbc.ExtractShader(data); err == nil {
		fmt.Fprintf(w, "program %s (%s chunk, %d tokens)\n", s.Model(), s.CodeTag, s.Tokens())
	} else {
		fmt.Fprintf(w, "program: %v\n", err)
	}
	return dxbc.Parse(data, func(tag dxbc.Tag, payload []byte) error {
		if tag != dxbc.TagInputSignature && tag != dxbc.TagOutputSignature {
			return nil
		}
		elems, err := dxbc.ParseSignature(payload)
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		fmt.Fprintf(w, "%s (%d elements)\n", tag, len(elems))
		return printSignature(w, elems)
	})
}

func printSignature(w io.Writer, sig dxbc.Signature) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tINDEX\tREG\tMASK\tUSED\tTYPE\tSV")
	for i := range sig {
		e := &sig[i]
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			e.SemanticName(), e.SemanticIndex, e.Register,
			maskString(e.ComponentMask()), maskString(e.ReadWriteMask()),
			e.ComponentType, e.SystemValue)
	}
	return tw.Flush()
}

func maskString(m uint8) string {
	b := []byte("____")
	for i, c := range "xyzw" {
		if m&(1<<i) != 0 {
			b[i] = byte(c)
		}
	}
	return string(b)
}
