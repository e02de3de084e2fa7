package client

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params holds caller parameters for one call. Values may be strings,
// integers, floats, bools, string or int slices, or fmt.Stringer; nil values
// are skipped. Slices become repeated parameters when form-encoded. PUT and
// DELETE send Params as a JSON object, so values keep their JSON types there.
type Params map[string]any

// Values flattens p into form values for signing.
func (p Params) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	v := make(url.Values, len(p))
	for key, val := range p {
		switch x := val.(type) {
		case nil:
		case []string:
			v[key] = append(v[key], x...)
		case []int:
			for _, n := range x {
				v.Add(key, strconv.Itoa(n))
			}
		case []any:
			for _, e := range x {
				v.Add(key, formatValue(e))
			}
		default:
			v.Add(key, formatValue(x))
		}
	}
	return v
}

func formatValue(val any) string {
	switch x := val.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
