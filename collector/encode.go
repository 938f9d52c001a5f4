package collector

import "encoding/json"

// Marshal encodes a result as JSON. The output always ends with a newline.
func Marshal(result Result, indent bool) []byte {
	return marshal(result, indent)
}

// MarshalAll encodes results as a JSON array. The output always ends with a newline.
func MarshalAll(results []Result, indent bool) []byte {
	if results == nil {
		results = []Result{}
	}

	return marshal(results, indent)
}

func marshal(value any, indent bool) []byte {
	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}

	if err != nil {
		data = []byte(`{"pages":[],"total_pages":0,"error":"failed to marshal result"}`)
	}

	return ensureNewline(data)
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}

	return data
}
