package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veyra-net/pktcraft/dns"
	"github.com/veyra-net/pktcraft/dot11"
	"github.com/veyra-net/pktcraft/ipv6"
	"github.com/veyra-net/pktcraft/pdu"
)

var (
	decodeUnit string
	decodeFile string
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a hex-encoded packet and print its protocol unit chain",
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeUnit, "unit", "u", "",
		"top-level unit to decode as: ipv6, dns, or dot11 (required)")
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "",
		"file containing hex-encoded packet bytes (defaults to stdin)")
}

func runDecode(cmd *cobra.Command, args []string) error {
	if decodeUnit == "" {
		return fmt.Errorf("--unit is required (ipv6, dns, or dot11)")
	}

	data, err := readHexInput()
	if err != nil {
		return err
	}

	top, err := decodeTop(decodeUnit, data)
	if err != nil {
		logger.WithError(err).Error("decode failed")
		return err
	}

	printChain(cmd.OutOrStdout(), top)
	return nil
}

func readHexInput() ([]byte, error) {
	var r io.Reader = os.Stdin
	if decodeFile != "" {
		f, err := os.Open(decodeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", decodeFile, err)
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	clean := strings.Map(func(c rune) rune {
		switch c {
		case ' ', '\n', '\r', '\t', ':':
			return -1
		}
		return c
	}, string(raw))

	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hex input: %w", err)
	}
	return data, nil
}

func decodeTop(unit string, data []byte) (pdu.PDU, error) {
	switch unit {
	case "ipv6":
		return ipv6.Parse(data)
	case "dns":
		return dns.Parse(data)
	case "dot11":
		return dot11.FromBytes(data)
	default:
		return nil, fmt.Errorf("unknown unit %q (want ipv6, dns, or dot11)", unit)
	}
}

var typeNames = map[pdu.Type]string{
	pdu.TypeRawPDU:              "RawPDU",
	pdu.TypeIPv6:                "IPv6",
	pdu.TypeDNS:                 "DNS",
	pdu.TypeDot11:               "IEEE802.11",
	pdu.TypeDot11Beacon:         "IEEE802.11 Beacon",
	pdu.TypeDot11AssocRequest:   "IEEE802.11 AssocRequest",
	pdu.TypeDot11AssocResponse:  "IEEE802.11 AssocResponse",
	pdu.TypeDot11Disassoc:       "IEEE802.11 Disassociation",
	pdu.TypeDot11QoSData:        "IEEE802.11 QoSData",
	pdu.TypeSNAP:                "LLC/SNAP",
}

func printChain(w io.Writer, top pdu.PDU) {
	depth := 0
	for cur := top; cur != nil; cur = cur.Inner() {
		name, ok := typeNames[cur.PDUType()]
		if !ok {
			name = fmt.Sprintf("Type(%d)", cur.PDUType())
		}
		fmt.Fprintf(w, "%s- %s (%d bytes)\n", strings.Repeat("  ", depth), name, cur.HeaderSize())
		depth++
	}
}
