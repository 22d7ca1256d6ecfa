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

// Package block defines the transaction/block envelope and the builder
// that seals admitted transactions into a hash-chained block (§3.4, §4.5).
// Canonical hashing mirrors the teacher's MarshalBinary/UnmarshalBinary
// symmetry style in sqlchain/types/block.go, targeting JSON instead of a
// binary codec because the design pins canonical JSON explicitly.
package block

import (
	"github.com/flakedb/ledger/crypto"
	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/flake"
)

// Transaction is one admitted write: the command that produced it, its
// author and signature, the flakes it materialized (all sharing T), and
// the receipt the Transactor hands back to the caller.
type Transaction struct {
	TxID      string // hex sha3-256 of Command
	Author    crypto.AccountAddress
	Nonce     int64
	Command   []byte
	Signature []byte
	T         int64
	Flakes    []flake.Flake
	Receipt   Receipt
}

// Receipt is the user-visible result of one transaction (§7 "user-visible
// surface"): either a successful allocation summary or a rejection kind
// and message. Tempids maps the caller's blank-node names to the subject
// ids the Transactor minted for them.
type Receipt struct {
	Status  int
	Kind    errkind.Kind
	Message string
	Tempids map[string]flake.ID
}

// Ok builds a successful receipt.
func Ok(tempids map[string]flake.ID) Receipt {
	return Receipt{Status: 200, Tempids: tempids}
}

// Rejected builds a failure receipt from a classified error.
func Rejected(kind errkind.Kind, message string) Receipt {
	return Receipt{Status: kind.HTTPStatus(), Kind: kind, Message: message}
}

// Header carries the block-level metadata independent of its transactions.
type Header struct {
	Number   int64
	Instant  int64 // wall-clock milliseconds
	PrevHash string
	Hash     string
	Signers  []string // ledger-signatures, hex-encoded compact signatures
}

// Block is a sealed, hash-chained batch of transactions: the block header
// flakes, the constituent transaction flakes, and the header/signature
// metadata needed to validate the chain without re-deriving it.
type Block struct {
	Header       Header
	Transactions []Transaction
	Flakes       []flake.Flake // full flake set, header + transaction flakes
	HeaderFlakes []flake.Flake // just the block-header/hash/signer flakes, a subset of Flakes
}

// BlockSubject returns the composite subject id a block's own header
// flakes are asserted against: the block collection keyed by block number.
func BlockSubject(number int64) flake.ID {
	return flake.NewID(flake.CollectionBlockID, uint64(number))
}

// TxSubject returns the composite subject id minted for the n-th
// transaction within a block (1-based), used as the object of
// `_block/transactions` reference flakes.
func TxSubject(blockNumber int64, n int) flake.ID {
	return flake.NewID(flake.CollectionTxID, uint64(blockNumber)<<16|uint64(n))
}
