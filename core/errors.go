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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyProductName indicates the product Name field is empty.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrEmptyCategoryName indicates the category Name field is empty.
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// ErrSelfParent indicates a category names itself as its parent.
	ErrSelfParent = errors.New("category cannot be its own parent")
)
