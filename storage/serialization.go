// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/poiesic/posfind/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, core.ProductMUS.Size(*product))
	core.ProductMUS.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := core.ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: product: %w", ErrSerializationFailed, err)
	}
	return &product, nil
}

// MarshalCategory serializes a Category to bytes.
func MarshalCategory(category *core.Category) []byte {
	buf := make([]byte, core.CategoryMUS.Size(*category))
	core.CategoryMUS.Marshal(*category, buf)
	return buf
}

// UnmarshalCategory deserializes a Category from bytes.
func UnmarshalCategory(data []byte) (*core.Category, error) {
	category, _, err := core.CategoryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: category: %w", ErrSerializationFailed, err)
	}
	return &category, nil
}
