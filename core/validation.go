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


package core

import (
	"fmt"
	"strings"
)

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace
//
// NOT validated:
//   - ID (0 is valid; storage assigns one from a sequence)
//   - CategoryIds (a product may be uncategorized)
//   - Barcode and DefaultCode (optional)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyProductName)
	}

	return nil
}

// ValidateCategory validates a Category according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace
//   - ParentId must differ from Id when both are set
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyCategoryName)
	}

	if category.Id != 0 && category.ParentId == category.Id {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrSelfParent)
	}

	return nil
}
