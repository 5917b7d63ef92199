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


package search

import "errors"

var (
	// ErrProductRepositoryRequired is returned when a product repository is not provided.
	ErrProductRepositoryRequired = errors.New("product repository required")

	// ErrCategoryRepositoryRequired is returned when a category repository is not provided.
	ErrCategoryRepositoryRequired = errors.New("category repository required")

	// ErrInvalidLanguage is returned when a collation language tag cannot be parsed.
	ErrInvalidLanguage = errors.New("invalid collation language")
)
