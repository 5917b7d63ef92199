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


// Package search provides multi-keyword product search for the point of sale.
//
// The Matcher type implements a single synchronous pass over a candidate list:
//   - the query is normalized (diacritics removed, lowercased) and split into tokens
//   - an item is kept when every token is a substring of its normalized search text
//   - survivors are ordered by where the whole normalized query first occurs in
//     their text, then by locale-aware collation of that text
//
// An empty or whitespace-only query keeps every candidate.
//
// Items whose text does not contain the whole query as one phrase get position
// -1 and therefore sort ahead of phrase matches. Existing installations rely on
// this order, so it is the default; WithMissingPhraseLast opts into sending those
// items to the end instead.
//
// The Searcher type loads candidates from the catalog repositories, optionally
// scoped to a category subtree, and runs them through a Matcher.
package search
