package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// OutputFormat controls how collected flow data is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by page then field.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits page.field=value pairs.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one page.field=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ContentType reports the MIME type of the format.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Serialize renders a data snapshot in the requested format.
func Serialize(format OutputFormat, data map[string]map[string]any) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		walk(data, func(key string, value any) {
			values.Add(key, fmt.Sprint(value))
		})
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		walk(data, func(key string, value any) {
			fmt.Fprintf(&b, "%s=%v\n", key, value)
		})
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("tui: unknown output format %q", format)
}

func walk(data map[string]map[string]any, fn func(key string, value any)) {
	pages := make([]string, 0, len(data))
	for pageID := range data {
		pages = append(pages, pageID)
	}
	sort.Strings(pages)
	for _, pageID := range pages {
		fields := make([]string, 0, len(data[pageID]))
		for fieldID := range data[pageID] {
			fields = append(fields, fieldID)
		}
		sort.Strings(fields)
		for _, fieldID := range fields {
			key := pageID + "." + fieldID
			switch v := data[pageID][fieldID].(type) {
			case []string:
				for i, item := range v {
					fn(fmt.Sprintf("%s[%d]", key, i), item)
				}
			case []any:
				for i, item := range v {
					fn(fmt.Sprintf("%s[%d]", key, i), item)
				}
			case nil:
				fn(key, "")
			default:
				fn(key, v)
			}
		}
	}
}
