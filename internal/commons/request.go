package commons

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// Params reads a form encoded, multipart or JSON request body into url.Values. JSON arrays become repeated
// "key[]" values and JSON objects become "key[sub]" values, the same names a browser form posts.
func Params(r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parsing multipart form: %w", err)
		}
		return r.Form, nil
	}
	if mediaType != "application/json" {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
		return r.Form, nil
	}

	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding JSON body: %w", err)
	}

	values := r.URL.Query()
	for key, raw := range body {
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				values.Add(key+"[]", scalar(item))
			}
		case map[string]any:
			for sub, item := range v {
				values.Add(key+"["+sub+"]", scalar(item))
			}
		default:
			values.Set(key, scalar(v))
		}
	}
	return values, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Param returns the trimmed value of key.
func Param(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// IntParam returns the integer value of key, or def when the key is absent or not a number.
func IntParam(values url.Values, key string, def int) int {
	raw := Param(values, key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// ListParam collects "key[]", indexed "key[0]" and plain "key" values in that order.
func ListParam(values url.Values, key string) []string {
	var out []string
	out = append(out, values[key+"[]"]...)
	for i := 0; ; i++ {
		v, ok := values[key+"["+strconv.Itoa(i)+"]"]
		if !ok {
			break
		}
		out = append(out, v...)
	}
	out = append(out, values[key]...)
	return out
}

// MapParam parses "key[<int>]=<int>" pairs, skipping entries that are not numeric.
func MapParam(values url.Values, key string) map[int]int {
	prefix := key + "["
	out := map[int]int{}
	for name, vals := range values {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "]") || len(vals) == 0 {
			continue
		}
		id, err := strconv.Atoi(name[len(prefix) : len(name)-1])
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil {
			continue
		}
		out[id] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
