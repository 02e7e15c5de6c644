package main

import "encoding/json"

func UnmarshalJSON[T any](data []byte) (T, error) {
	var parsed T
	err := json.Unmarshal(data, &parsed)
	return parsed, err
}
