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

package transactor

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

// coerceLiteral converts a statement's raw JSON-decoded value to the
// flake.Value a predicate of the given type stores (§4.4 step 3
// "coercing literals to declared types"). Ref/tag values are resolved
// separately by the caller, since they need the transaction's resolver,
// not just the raw value.
func coerceLiteral(t schema.Type, raw interface{}) (flake.Value, error) {
	switch t {
	case schema.TypeString, schema.TypeJSON, schema.TypeGeoJSON, schema.TypeUUID, schema.TypeURI:
		s, ok := raw.(string)
		if !ok {
			return flake.Value{}, errors.Errorf("expected string for type %s, got %T", t, raw)
		}
		return flake.String(s), nil

	case schema.TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return flake.Value{}, errors.Errorf("expected bool for type %s, got %T", t, raw)
		}
		return flake.Boolean(b), nil

	case schema.TypeInt, schema.TypeLong:
		n, err := asNumber(raw)
		if err != nil {
			return flake.Value{}, err
		}
		return flake.Long(int64(n)), nil

	case schema.TypeBigInt, schema.TypeBigDec:
		switch v := raw.(type) {
		case string:
			if t == schema.TypeBigInt {
				return flake.BigInt(v), nil
			}
			return flake.BigDec(v), nil
		case float64:
			if t == schema.TypeBigInt {
				return flake.BigInt(fmt.Sprintf("%.0f", v)), nil
			}
			return flake.BigDec(fmt.Sprintf("%g", v)), nil
		default:
			return flake.Value{}, errors.Errorf("expected string or number for type %s, got %T", t, raw)
		}

	case schema.TypeFloat:
		n, err := asNumber(raw)
		if err != nil {
			return flake.Value{}, err
		}
		return flake.Float(float32(n)), nil

	case schema.TypeDouble:
		n, err := asNumber(raw)
		if err != nil {
			return flake.Value{}, err
		}
		return flake.Double(n), nil

	case schema.TypeInstant:
		switch v := raw.(type) {
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return flake.Value{}, errors.Wrap(err, "invalid instant")
			}
			return flake.Instant(parsed), nil
		case float64:
			return flake.Instant(time.Unix(0, int64(v)*int64(time.Millisecond))), nil
		default:
			return flake.Value{}, errors.Errorf("expected RFC3339 string or epoch-millis number for instant, got %T", raw)
		}

	case schema.TypeBytes:
		s, ok := raw.(string)
		if !ok {
			return flake.Value{}, errors.Errorf("expected base64/hex string for type bytes, got %T", raw)
		}
		return flake.Bytes([]byte(s)), nil

	default:
		return flake.Value{}, errors.Errorf("type %s is not a literal type", t)
	}
}

func asNumber(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Errorf("expected a number, got %T", raw)
	}
}
