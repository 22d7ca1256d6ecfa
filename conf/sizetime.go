/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package conf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/flakedb/ledger/crypto/hash"
)

var sizeTimeRe = regexp.MustCompile(`^([0-9.]+)([a-zA-Z]{0,2})$`)

// sizeUnits maps the §6 size-string suffixes to byte multipliers. Go's own
// units aren't reused here (no stdlib size parser exists) and the spec's
// grammar (`b`/`k`/`kb`/`m`/`mb`/`g`/`gb`, case-insensitive) is bespoke.
var sizeUnits = map[string]int64{
	"":   1,
	"b":  1,
	"k":  1 << 10,
	"kb": 1 << 10,
	"m":  1 << 20,
	"mb": 1 << 20,
	"g":  1 << 30,
	"gb": 1 << 30,
}

// timeUnits maps the §6 time-string suffixes to millisecond multipliers.
// time.ParseDuration is not reused because it rejects the bare `d`/`y`
// units the spec requires and is case-sensitive where the spec is not.
var timeUnits = map[string]float64{
	"":  1,
	"s": 1000,
	"m": 1000 * 60,
	"h": 1000 * 60 * 60,
	"d": 1000 * 60 * 60 * 24,
	"y": 1000 * 60 * 60 * 24 * 365,
}

// ParseSize parses a §6 size string (default unit "b").
func ParseSize(s string) (int64, error) {
	m := sizeTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.Errorf("malformed size string %q", s)
	}
	mult, ok := sizeUnits[strings.ToLower(m[2])]
	if !ok {
		return 0, errors.Errorf("unrecognized size unit %q in %q", m[2], s)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed size string %q", s)
	}
	return int64(f * float64(mult)), nil
}

// ParseTimeMillis parses a §6 time string (default unit "ms") into
// milliseconds.
func ParseTimeMillis(s string) (int64, error) {
	m := sizeTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.Errorf("malformed time string %q", s)
	}
	unit := strings.ToLower(m[2])
	if unit == "ms" || unit == "" {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, errors.Wrapf(err, "malformed time string %q", s)
		}
		return int64(f), nil
	}
	mult, ok := timeUnits[unit]
	if !ok {
		return 0, errors.Errorf("unrecognized time unit %q in %q", m[2], s)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed time string %q", s)
	}
	return int64(f * mult), nil
}

func parseSizeOrDefault(s, def string) (int64, error) {
	if s == "" {
		s = def
	}
	return ParseSize(s)
}

func parseTimeMillisOrDefault(s, def string) (int64, error) {
	if s == "" {
		s = def
	}
	return ParseTimeMillis(s)
}

// deriveEncryptionKey hashes a passphrase down to a 32-byte AES-256 key,
// reusing the teacher's double-hash key derivation style
// (crypto/symmetric.keyDerivation) rather than inventing a new KDF.
func deriveEncryptionKey(secret string) []byte {
	return hash.DoubleHashB([]byte(secret))
}
