package domain

import (
	"bytes"
	"encoding/json"
)

// Record is the persisted shape of a task. All fields are strings and are
// empty when unset; documents written by older versions may omit id and date.
type Record struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	Date       string `json:"date" yaml:"date"`
}

// MarshalRecords encodes records as a JSON array. A nil slice encodes as [].
func MarshalRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// UnmarshalRecords decodes a JSON array of records. Blank input yields no records.
func UnmarshalRecords(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
