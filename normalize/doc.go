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


// Package normalize provides the text normalization strategies used by search.
//
// A Normalizer maps a string to a canonical, diacritic-free form. The search
// matcher lowercases on top of whatever the normalizer returns, so
// implementations only need to deal with accents and other Unicode folding.
//
// Available strategies:
//   - StripDiacritics: NFD decomposition, nonspacing marks removed, NFC recomposition
//   - Identity: returns its input unchanged
//   - Cache: wraps another Normalizer with a bounded LRU
//
// All strategies in this package are safe for concurrent use.
package normalize
