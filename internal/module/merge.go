package module

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/hostsgen/hostsgen/internal/hosts"
)

// Origin is an entry together with the module that declared it.
type Origin struct {
	Module string
	Entry  hosts.Entry
}

// Conflict records a hostname whose mapping was overridden by a later declaration.
type Conflict struct {
	Hostname   string
	Superseded Origin
	Winner     Origin
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s (mod %s, line %d) superseded by %s (mod %s, line %d)",
		c.Hostname,
		c.Superseded.Entry.IP, c.Superseded.Module, c.Superseded.Entry.Line,
		c.Winner.Entry.IP, c.Winner.Module, c.Winner.Entry.Line)
}

// Merged is the combined, conflict-resolved entry set of a project.
type Merged struct {
	Entries   []Origin
	Conflicts []Conflict
}

// Hosts returns the merged entries without their origins.
func (m *Merged) Hosts() []hosts.Entry {
	out := make([]hosts.Entry, len(m.Entries))
	for i, o := range m.Entries {
		out[i] = o.Entry
	}
	return out
}

type addrKey struct {
	ip     string
	family string
}

func keyOf(ip string) addrKey {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return addrKey{ip: ip, family: "invalid"}
	}
	if addr.Is4() {
		return addrKey{ip: addr.String(), family: "4"}
	}
	return addrKey{ip: addr.String(), family: "6"}
}

// Merge concatenates module entries in declaration order and resolves conflicts.
//
// For each hostname and address family the last declaration wins. Earlier
// declarations of that hostname with a different IP lose the hostname and are
// reported as conflicts. A hostname already emitted with the winning IP is not
// emitted again. Entries left without hostnames are dropped; the rest keep
// their relative order.
func Merge(mods []Module) *Merged {
	var items []Origin
	for _, m := range mods {
		for _, e := range m.Entries {
			items = append(items, Origin{Module: m.Name, Entry: e.Clone()})
		}
	}

	keys := make([]addrKey, len(items))
	winner := make(map[string]int)
	for i, it := range items {
		keys[i] = keyOf(it.Entry.IP)
		for _, h := range it.Entry.Hostnames {
			winner[hostKey(keys[i], h)] = i
		}
	}

	merged := &Merged{}
	emitted := make(map[string]bool)

	for i, it := range items {
		var kept []string
		for _, h := range it.Entry.Hostnames {
			k := hostKey(keys[i], h)
			w := winner[k]
			if keys[w].ip != keys[i].ip {
				merged.Conflicts = append(merged.Conflicts, Conflict{
					Hostname:   h,
					Superseded: it,
					Winner:     items[w],
				})
				continue
			}
			if emitted[k] {
				continue
			}
			emitted[k] = true
			kept = append(kept, h)
		}

		if len(kept) == 0 {
			continue
		}
		e := it.Entry
		e.Hostnames = kept
		merged.Entries = append(merged.Entries, Origin{Module: it.Module, Entry: e})
	}

	return merged
}

func hostKey(k addrKey, hostname string) string {
	return k.family + "/" + strings.ToLower(hostname)
}
