// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package inherents implements the thread-safe staging buffer that
// collects asynchronously produced inherent-data items and drains them
// into the block builder.
package inherents

import (
	"github.com/lux-relay/candidate-agreement/codec"
)

// Identifier names one inherent data item, mirroring the 8-byte tags used
// by the chain's inherent framework (e.g. "testinh0").
type Identifier [8]byte

// Data is a bundle of named, independently-encoded inherent values. It is
// the unit the staging Pool stores and drains.
type Data struct {
	values map[Identifier][]byte
}

// New returns an empty inherent-data bundle.
func New() *Data {
	return &Data{values: make(map[Identifier][]byte)}
}

// PutData encodes v and stores it under id, overwriting any prior value.
func (d *Data) PutData(id Identifier, v interface{}) error {
	encoded, err := codec.Codec.Marshal(codec.CurrentVersion, v)
	if err != nil {
		return err
	}
	d.values[id] = encoded
	return nil
}

// GetData decodes the value stored under id into out. It reports false if
// no value is present, matching the Option-returning original.
func (d *Data) GetData(id Identifier, out interface{}) (bool, error) {
	raw, ok := d.values[id]
	if !ok {
		return false, nil
	}
	if _, err := codec.Codec.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// merge applies every entry of other onto d, overwriting matching keys.
func (d *Data) merge(other *Data) {
	for id, raw := range other.values {
		d.values[id] = raw
	}
}
