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

package block

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
	"github.com/flakedb/ledger/storage"
)

// Builder seals admitted transactions into a hash-chained block, grounded
// on sqlchain/types/block.go's PackAndSignBlock for the sign-after-hash
// ordering.
type Builder struct {
	Signer *asymmetric.PrivateKey
}

// Seal runs §4.5's five-step procedure: allocate block-t/number/instant,
// emit header flakes, hash the canonical flake sequence, append the hash
// and signer flakes, and return the assembled Block. prevHash is empty for
// block 1. instant is the caller-supplied `_block/instant` value (millis);
// the caller decides where it comes from so that a genesis block can be
// sealed deterministically from (cmd, sig, timestamp) alone (§4.1 step 5),
// while a normal block seals from wall-clock (§4.5).
func (b *Builder) Seal(ledgerT, ledgerBlock int64, prevHash string, txs []Transaction, cache *schema.Cache, instant int64) (*Block, error) {
	if len(txs) == 0 {
		return nil, errors.New("block: cannot seal an empty transaction set")
	}

	blockT := ledgerT - 1
	blockNumber := ledgerBlock + 1
	subject := BlockSubject(blockNumber)

	var flakes []flake.Flake
	for _, tx := range txs {
		flakes = append(flakes, tx.Flakes...)
	}

	header := []flake.Flake{
		flake.New(subject, predicateID(cache, schema.MetaBlockNumber), flake.Long(blockNumber), blockT, true, nil),
		flake.New(subject, predicateID(cache, schema.MetaBlockInstant), flake.Long(instant), blockT, true, nil),
	}
	for i := range txs {
		header = append(header, flake.New(subject, predicateID(cache, schema.MetaBlockTransactions), flake.Ref(TxSubject(blockNumber, i+1)), blockT, true, nil))
	}
	if blockNumber > 1 {
		if prevHash == "" {
			return nil, errors.New("block: missing prevHash for non-genesis block")
		}
		header = append(header, flake.New(subject, predicateID(cache, schema.MetaBlockPrevHash), flake.String(prevHash), blockT, true, nil))
	}

	flakes = append(flakes, header...)

	digest, err := Hash(flakes, cache)
	if err != nil {
		return nil, errors.Wrap(err, "block: compute content hash")
	}

	hashFlake := flake.New(subject, predicateID(cache, schema.MetaBlockHash), flake.String(digest), blockT, true, nil)
	flakes = append(flakes, hashFlake)

	header = append(header, hashFlake)

	var signers []string
	if b.Signer != nil {
		sig, err := b.Signer.SignCompact([]byte(digest))
		if err != nil {
			return nil, errors.Wrap(err, "block: sign content hash")
		}
		signerHex := hex.EncodeToString(sig)
		signers = append(signers, signerHex)
		ledgersFlake := flake.New(subject, predicateID(cache, schema.MetaBlockLedgers), flake.String(signerHex), blockT, true, nil)
		flakes = append(flakes, ledgersFlake)
		header = append(header, ledgersFlake)
	}

	return &Block{
		Header: Header{
			Number:   blockNumber,
			Instant:  instant,
			PrevHash: prevHash,
			Hash:     digest,
			Signers:  signers,
		},
		Transactions: txs,
		Flakes:       flakes,
		HeaderFlakes: header,
	}, nil
}

func predicateID(cache *schema.Cache, name string) flake.ID {
	if p, ok := cache.Predicate(name); ok {
		return p.ID
	}
	return flake.ID{}
}

// wireBlock is the JSON-on-the-wire stand-in for the delegated segment
// serializer (§6 "Serialization is delegated"): an identity passthrough,
// adequate for the memory/file/s3/vault backends this design owns.
type wireBlock struct {
	Header Header
	Flakes []flake.Flake
}

// Key returns the storage façade key for a block, matching §6's
// `ledger/{network}/{dbid}/block/{block-number}` convention.
func Key(network, dbid string, number int64) string {
	return storage.Key(network, dbid, "block", strconv.FormatInt(number, 10))
}

// Persist writes a block's header and flakes to the storage façade.
func Persist(ctx context.Context, backend storage.Backend, network, dbid string, b *Block) error {
	payload, err := json.Marshal(wireBlock{Header: b.Header, Flakes: b.Flakes})
	if err != nil {
		return errors.Wrap(err, "block: marshal for persistence")
	}
	return backend.Write(ctx, Key(network, dbid, b.Header.Number), payload)
}

// Load reads back a previously persisted block.
func Load(ctx context.Context, backend storage.Backend, network, dbid string, number int64) (*Block, error) {
	raw, err := backend.Read(ctx, Key(network, dbid, number))
	if err != nil {
		return nil, err
	}
	var wb wireBlock
	if err := json.Unmarshal(raw, &wb); err != nil {
		return nil, errors.Wrap(err, "block: unmarshal persisted block")
	}
	return &Block{Header: wb.Header, Flakes: wb.Flakes}, nil
}
