/*
File: netranges.go
Version: 1.0.0
Description: Special-purpose IP range classification backed by a compressed
             trie. Hosts resolving into private or reserved space are never
             public web infrastructure, which is itself a risk signal.
*/

package main

import (
	"net"

	"github.com/yl2chen/cidranger"
)

// specialPurposeCIDRs are the RFC 6890 blocks that cannot host a public site.
var specialPurposeCIDRs = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
}

// RangeClassifier answers membership queries against the special-purpose
// table. Built once at startup, read-only afterwards.
type RangeClassifier struct {
	ranger cidranger.Ranger
}

func NewRangeClassifier() *RangeClassifier {
	ranger := cidranger.NewPCTrieRanger()
	for _, cidr := range specialPurposeCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			LogWarn("[NET] skipping bad CIDR %s: %v", cidr, err)
			continue
		}
		_ = ranger.Insert(cidranger.NewBasicRangerEntry(*network))
	}
	return &RangeClassifier{ranger: ranger}
}

// IsSpecialPurpose reports whether addr falls in private, loopback or
// otherwise reserved space. Unparseable input reports false.
func (rc *RangeClassifier) IsSpecialPurpose(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	contained, err := rc.ranger.Contains(ip)
	if err != nil {
		return false
	}
	return contained
}
