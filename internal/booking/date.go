// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package booking

import (
	"strings"
	"time"
)

// TravelDateLayout is dd-MM-yyyy hh:mm AM/PM.
const TravelDateLayout = "02-01-2006 03:04 PM"

// NormalizeTravelDate returns input if it parses as TravelDateLayout, and
// now formatted in that layout otherwise. ok reports whether input was used.
func NormalizeTravelDate(input string, now time.Time) (date string, ok bool) {
	input = strings.TrimSpace(input)
	if _, err := time.Parse(TravelDateLayout, input); err == nil {
		return input, true
	}
	return now.Format(TravelDateLayout), false
}
