package hosts

import (
	"fmt"
	"io"
	"net/netip"
	"sort"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// HostnameChars lists every character a hostname may contain.
const HostnameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-."

// ViolationKind classifies a validation problem.
type ViolationKind string

const (
	InvalidIP                ViolationKind = "InvalidIP"
	InvalidHostnameChar      ViolationKind = "InvalidHostnameChar"
	InvalidHostnameLabel     ViolationKind = "InvalidHostnameLabel"
	DuplicateHostname        ViolationKind = "DuplicateHostname"
	DuplicateIPSameHostnames ViolationKind = "DuplicateIPSameHostnames"
	Malformed                ViolationKind = "Malformed"
)

// Violation is a single problem found by Validate.
type Violation struct {
	Kind     ViolationKind
	Line     int
	Hostname string
	Entry    *Entry
	Message  string
}

func (v Violation) Error() string {
	if v.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", v.Line, v.Kind, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// Report holds every violation found in one validation run.
type Report struct {
	Entries    int
	Violations []Violation
}

// OK reports whether no violation was found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Count returns the number of violations of the given kind.
func (r *Report) Count(kind ViolationKind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// ValidHostnameChars reports whether h is non-empty and uses only HostnameChars.
func ValidHostnameChars(h string) bool {
	if h == "" {
		return false
	}
	for i := 0; i < len(h); i++ {
		if !isHostnameByte(h[i]) {
			return false
		}
	}
	return true
}

func isHostnameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '.'
}

type mapping struct {
	ip   string
	line int
}

// Validate checks entries and folds parse errors into one report.
// Duplicates are detected across all entries passed in a single call. A hostname
// may map to one IPv4 and one IPv6 address without being reported.
func Validate(entries []Entry, parseErrs []*ParseError) *Report {
	report := &Report{Entries: len(entries)}

	for _, pe := range parseErrs {
		report.Violations = append(report.Violations, Violation{
			Kind:    Malformed,
			Line:    pe.Line,
			Message: fmt.Sprintf("%s: %q", pe.Reason, strings.TrimSpace(pe.Raw)),
		})
	}

	byHostname := make(map[string]mapping)
	bySet := make(map[string]int)

	for i := range entries {
		e := &entries[i]
		report.Violations = append(report.Violations, checkHostnames(e)...)

		addr, err := netip.ParseAddr(e.IP)
		if err != nil {
			report.Violations = append(report.Violations, Violation{
				Kind:    InvalidIP,
				Line:    e.Line,
				Entry:   e,
				Message: fmt.Sprintf("invalid IP address: %s", e.IP),
			})
			continue
		}
		ip := addr.String()
		family := "4"
		if addr.Is6() {
			family = "6"
		}

		setKey := ip + "|" + hostnameSetKey(e.Hostnames)
		if first, dup := bySet[setKey]; dup {
			report.Violations = append(report.Violations, Violation{
				Kind:    DuplicateIPSameHostnames,
				Line:    e.Line,
				Entry:   e,
				Message: fmt.Sprintf("%s repeats the entry on line %d", e.Format(false), first),
			})
			continue
		}
		bySet[setKey] = e.Line

		for _, h := range e.Hostnames {
			key := family + "/" + strings.ToLower(h)
			prev, seen := byHostname[key]
			if !seen {
				byHostname[key] = mapping{ip: ip, line: e.Line}
				continue
			}
			if prev.ip != ip {
				report.Violations = append(report.Violations, Violation{
					Kind:     DuplicateHostname,
					Line:     e.Line,
					Hostname: h,
					Entry:    e,
					Message:  fmt.Sprintf("%s maps to %s but line %d maps it to %s", h, e.IP, prev.line, prev.ip),
				})
			}
		}
	}

	sort.SliceStable(report.Violations, func(i, j int) bool {
		return report.Violations[i].Line < report.Violations[j].Line
	})
	return report
}

// Check parses hosts data from r and validates it.
func Check(r io.Reader) (*Report, error) {
	entries, parseErrs, err := Collect(Parse(r))
	if err != nil {
		return nil, err
	}
	return Validate(entries, parseErrs), nil
}

func checkHostnames(e *Entry) []Violation {
	var out []Violation
	inEntry := make(map[string]bool, len(e.Hostnames))

	for _, h := range e.Hostnames {
		lower := strings.ToLower(h)
		if inEntry[lower] {
			out = append(out, Violation{
				Kind:     DuplicateHostname,
				Line:     e.Line,
				Hostname: h,
				Entry:    e,
				Message:  fmt.Sprintf("%s is listed more than once in the same entry", h),
			})
		}
		inEntry[lower] = true

		if !ValidHostnameChars(h) {
			out = append(out, Violation{
				Kind:     InvalidHostnameChar,
				Line:     e.Line,
				Hostname: h,
				Entry:    e,
				Message:  invalidCharMessage(h),
			})
			continue
		}
		if _, ok := dns.IsDomainName(h); !ok || emptyLabel(h) {
			out = append(out, Violation{
				Kind:     InvalidHostnameLabel,
				Line:     e.Line,
				Hostname: h,
				Entry:    e,
				Message:  fmt.Sprintf("%s has an empty or oversized label", h),
			})
		}
	}
	return out
}

// emptyLabel reports a leading, trailing or doubled dot, including a bare ".",
// which dns.IsDomainName accepts as the root or a fully qualified name.
func emptyLabel(h string) bool {
	return strings.HasPrefix(h, ".") || strings.HasSuffix(h, ".") || strings.Contains(h, "..")
}

func invalidCharMessage(h string) string {
	var bad []string
	seen := make(map[rune]bool)
	for _, r := range h {
		if r < 0x80 && isHostnameByte(byte(r)) || seen[r] {
			continue
		}
		seen[r] = true
		bad = append(bad, fmt.Sprintf("%q", r))
	}
	msg := fmt.Sprintf("%s contains invalid characters %s (allowed: A-Z a-z 0-9 . -)", h, strings.Join(bad, ", "))

	if ascii, err := idna.Lookup.ToASCII(h); err == nil && ascii != h && ValidHostnameChars(ascii) {
		msg += fmt.Sprintf("; did you mean %s?", ascii)
	}
	return msg
}

func hostnameSetKey(hostnames []string) string {
	set := make([]string, len(hostnames))
	for i, h := range hostnames {
		set[i] = strings.ToLower(h)
	}
	sort.Strings(set)
	return strings.Join(set, " ")
}
