// report_batch.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"bytes"
	"encoding/json"
)

// ReportBatch is the body of a report submission. The monthly report form
// posts a single report object; bulk entry posts an array. Both decode to
// the same ordered batch, and a null body is an empty batch.
type ReportBatch[T any] []T

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *ReportBatch[T]) UnmarshalJSON(data []byte) error {
	body := bytes.TrimLeft(data, " \t\r\n")
	if len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		*b = nil
		return nil
	}

	if body[0] != '[' {
		var report T
		if err := json.Unmarshal(body, &report); err != nil {
			return err
		}
		*b = ReportBatch[T]{report}
		return nil
	}

	var reports []T
	if err := json.Unmarshal(body, &reports); err != nil {
		return err
	}
	*b = reports
	return nil
}

// Reports returns the batch in submission order.
func (b ReportBatch[T]) Reports() []T {
	return b
}
