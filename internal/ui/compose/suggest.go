package compose

import (
	"strings"

	"github.com/MohamedEliwa204/mail/internal/model"
)

// maxSuggestions caps the recipient autocomplete list.
const maxSuggestions = 5

// Suggestions returns up to max contact addresses completing the recipient
// field. Only the fragment after the last comma is matched, so earlier,
// already complete addresses never re-trigger the list. Matching is
// case-insensitive against both the contact name and each address; a
// contact with several addresses contributes one entry per address.
// Fragments shorter than two characters return nothing.
func Suggestions(contacts []model.Contact, input string, max int) []string {
	fragment := input
	if i := strings.LastIndex(input, ","); i >= 0 {
		fragment = input[i+1:]
	}
	fragment = strings.TrimSpace(fragment)
	if len(fragment) < 2 {
		return nil
	}
	needle := strings.ToLower(fragment)

	taken := make(map[string]struct{})
	if i := strings.LastIndex(input, ","); i >= 0 {
		for _, prev := range strings.Split(input[:i], ",") {
			prev = strings.ToLower(strings.TrimSpace(prev))
			if prev != "" {
				taken[prev] = struct{}{}
			}
		}
	}

	var out []string
	for _, c := range contacts {
		nameMatch := strings.Contains(strings.ToLower(c.Name), needle)
		for _, addr := range c.Emails {
			if len(out) >= max {
				return out
			}
			if _, dup := taken[strings.ToLower(addr)]; dup {
				continue
			}
			if nameMatch || strings.Contains(strings.ToLower(addr), needle) {
				out = append(out, addr)
			}
		}
	}
	return out
}

// applySuggestion replaces the trailing fragment of input with the chosen
// address, keeping the completed addresses before it.
func applySuggestion(input, address string) string {
	if i := strings.LastIndex(input, ","); i >= 0 {
		return strings.TrimRight(input[:i+1], " ") + " " + address
	}
	return address
}
