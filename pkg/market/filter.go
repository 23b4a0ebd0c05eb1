package market

import (
	"net/url"
	"strings"
)

// Filter is directory filter state keyed by filter name. Range filters hold the
// dropdown label, not the resolved numbers.
type Filter map[string]string

// Clone returns an independent copy.
func (f Filter) Clone() Filter {
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Empty reports whether every field is blank.
func (f Filter) Empty() bool {
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BuildQuery translates filter state into the listings query string.
//
// Every key is omitted when blank. Range labels are resolved through the
// category's lookup table; an unknown label is dropped and an open-ended
// range sends only its minimum. Keys the category does not know are ignored.
func BuildQuery(c Category, f Filter) url.Values {
	q := url.Values{}
	for _, k := range c.Filters {
		if v := strings.TrimSpace(f[k]); v != "" {
			q.Set(k, v)
		}
	}
	for _, r := range c.Ranges {
		label := strings.TrimSpace(f[r.Key])
		if label == "" {
			continue
		}
		opt, ok := r.Resolve(label)
		if !ok {
			continue
		}
		q.Set(MinParam(r.Key), opt.Min.String())
		if opt.Max != nil {
			q.Set(MaxParam(r.Key), opt.Max.String())
		}
	}
	return q
}

func MinParam(key string) string { return "min" + upperFirst(key) }
func MaxParam(key string) string { return "max" + upperFirst(key) }

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Query builds the GET /leads query string. Blank values and "all" are omitted.
func (f LeadFilter) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		v = strings.TrimSpace(v)
		if v != "" && v != StatusFilterAll {
			q.Set(k, v)
		}
	}
	set("status", f.Status)
	set("priority", f.Priority)
	set("serviceType", f.ServiceType)
	set("search", f.Search)
	return q
}
