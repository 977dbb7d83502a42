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


// Package query coordinates the full lifecycle of one user question:
// language detection, optional translation, concurrent retrieval and
// prompt preparation, answer generation, and post-processing.
//
// Each request leases one store connection from the shared pool and is
// guaranteed to release it exactly once, on every exit path. Retrieval,
// prompt preparation, and generation run on a bounded worker pool shared
// process-wide, which caps the number of simultaneous blocking backend
// calls regardless of inbound request volume.
package query
