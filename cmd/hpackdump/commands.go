package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgrr/hpack"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex-block>...",
		Short: "Decode one or more HPACK header blocks sharing a connection's state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := hpack.AcquireDecoder()
			defer hpack.ReleaseDecoder(d)
			if err := d.SetMaxTableSize(cfg.MaxTableSize); err != nil {
				return err
			}

			for blockIdx, hexBlock := range args {
				buf, err := hex.DecodeString(strings.TrimSpace(hexBlock))
				if err != nil {
					return fmt.Errorf("block %d: %w", blockIdx, err)
				}
				rest, err := d.Read(buf)
				if err != nil {
					return fmt.Errorf("block %d: %w", blockIdx, err)
				}
				if len(rest) != 0 {
					return fmt.Errorf("block %d: %d trailing bytes not consumed", blockIdx, len(rest))
				}
				fmt.Fprintln(out, color.CyanString("block %d:", blockIdx))
				for i := 0; i < d.Store().Len(); i++ {
					f := d.Store().At(i)
					fmt.Fprintf(out, "  %s: %s\n", color.GreenString(f.Name()), f.Value())
				}
			}
			return nil
		},
	}
}

func newEncodeCmd() *cobra.Command {
	var noHuffman bool
	cmd := &cobra.Command{
		Use:   "encode <name:value>...",
		Short: "Encode a list of name:value header pairs into one HPACK block",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := hpack.AcquireEncoder()
			defer hpack.ReleaseEncoder(e)
			e.DisableCompression = noHuffman
			if err := e.SetMaxTableSize(cfg.MaxTableSize); err != nil {
				return err
			}

			for _, pair := range args {
				name, value, ok := strings.Cut(pair, ":")
				if !ok {
					return fmt.Errorf("invalid pair %q, expected name:value", pair)
				}
				e.Add(name, value)
			}

			block, err := e.Write(nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hex.EncodeToString(block))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noHuffman, "no-huffman", false, "disable Huffman string compression")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <hex-block>",
		Short: "Decode one block and dump the resulting dynamic table state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			d := hpack.AcquireDecoder()
			defer hpack.ReleaseDecoder(d)
			if _, err := d.Read(buf); err != nil {
				return err
			}
			fmt.Fprintln(out, d.Table().String())
			fmt.Fprintln(out, spew.Sdump(d.Table()))
			return nil
		},
	}
}
