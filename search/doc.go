// Copyright 2025 The EarlhamAI Authors
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


// Package search provides the hybrid retrieval engine.
//
// The Engine type implements a two-stage ranking algorithm:
//   - A store-side hybrid score blending keyword rank and vector
//     similarity, with a keyword filter narrowing candidates first
//   - A client-side re-rank pass applying an exact-phrase bonus and a
//     keyword-density multiplier over a small candidate window
//
// The re-rank multipliers are tuning constants meant to reorder the
// store's candidate window, not to replace its ranking.
package search
