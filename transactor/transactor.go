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
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/flakedb/ledger/block"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/ledger"
	"github.com/flakedb/ledger/schema"
	"github.com/flakedb/ledger/storage"
	"github.com/flakedb/ledger/utils/log"
	"github.com/flakedb/ledger/utils/timer"
	"github.com/flakedb/ledger/validator"
)

// Transactor runs one transaction end-to-end (§4.4): sign verification,
// time assignment, flake materialization, schema validation, admission
// to novelty, and cooperation with the Block Builder. The single mutex
// here matches xenomint/state.go's single-writer pipeline; concurrent
// readers go through ledger.Ledger.Novelty's Snapshot instead.
type Transactor struct {
	Ledger  *ledger.Ledger
	Builder *block.Builder
	Storage storage.Backend

	mu      sync.Mutex
	pending []block.Transaction
}

// Prepared is the outcome of Prepare: a transaction ready to be admitted
// to novelty, plus whatever schema-cache and post-index-hygiene side
// effects its validation computed. Rollback discards it; Commit absorbs it.
type Prepared struct {
	Tx             block.Transaction
	NextSchema     *schema.Cache
	RemoveFromPost []flake.ID
}

// Prepare runs steps 1-5 of §4.4: recover the author, assign a logical
// time, materialize the command's statement graph into flakes against the
// ledger's currently published schema, and validate any `_predicate`
// mutations. A rejected transaction still returns a *Prepared (carrying a
// Rejected receipt) and a nil error — rejection is a value, not a Go error;
// Commit on a rejected Prepared only records the receipt, never mutates
// novelty or the schema cache.
func (tr *Transactor) Prepare(ctx context.Context, rawCmd, signature []byte) (prepared *Prepared, err error) {
	tm := timer.NewTimer()
	defer func() {
		log.WithFields(tm.ToLogFields()).WithError(err).Debug("transactor prepare")
	}()

	author, err := VerifyAndRecover(rawCmd, signature)
	if err != nil {
		return nil, err
	}
	tm.Add("verify")

	var cmd Command
	if unmarshalErr := json.Unmarshal(rawCmd, &cmd); unmarshalErr != nil {
		err = errkind.New(errkind.InvalidTx, unmarshalErr, "decode command")
		return nil, err
	}

	t := tr.Ledger.NextT()
	before := tr.Ledger.Schema()
	txID := hash.Sha3_256Hex(rawCmd)

	res := newResolver(tr.Ledger.MintID)
	flakes, matErr := materialize(cmd, t, before, res)
	tm.Add("materialize")
	tx := block.Transaction{
		TxID:      txID,
		Author:    author,
		Nonce:     cmd.Nonce,
		Command:   rawCmd,
		Signature: signature,
		T:         t,
	}
	if matErr != nil {
		tx.Receipt = block.Rejected(errkind.Of(matErr), matErr.Error())
		return &Prepared{Tx: tx}, nil
	}
	tx.Flakes = flakes

	result := validator.Validate(flakes, before)
	tm.Add("validate")
	if !result.OK() {
		tx.Receipt = block.Rejected(result.Errors[0].Kind, result.Errors[0].Error())
		return &Prepared{Tx: tx}, nil
	}

	next := applySchemaMutations(before, flakes)
	tx.Receipt = block.Ok(res.tempids)

	return &Prepared{Tx: tx, NextSchema: next, RemoveFromPost: result.RemoveFromPost}, nil
}

// Commit absorbs a successfully prepared transaction's flakes into the
// ledger's live novelty set, publishes any schema-cache mutation it
// carried, and queues it for the next sealed block (§4.4 steps 6-7). A
// rejected Prepared is recorded without touching novelty or schema.
func (tr *Transactor) Commit(prepared *Prepared) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.pending = append(tr.pending, prepared.Tx)
	if prepared.Tx.Receipt.Kind != "" {
		return // rejected: nothing to absorb
	}

	tr.Ledger.Novelty().Absorb(prepared.Tx.Flakes, tr.Ledger.Lookup())
	if prepared.NextSchema != nil {
		tr.Ledger.PublishSchema(prepared.NextSchema)
	}
	if len(prepared.RemoveFromPost) > 0 {
		finalized := validator.FinalizeRemoveFromPost(prepared.RemoveFromPost, tr.Ledger.Schema())
		removeFromPost(tr.Ledger.Novelty(), finalized)
	}
}

// Rollback discards a prepared transaction. Nothing was mutated during
// Prepare besides consuming a logical-time value and any subject ids minted
// for its tempids, so there is nothing to undo; the consumed t and ids are
// simply never reused (§5 "Cancellation").
func (tr *Transactor) Rollback(prepared *Prepared) {}

// SealBlock drains every transaction committed since the last seal into a
// new hash-chained block, absorbs the block's header flakes into novelty,
// advances the ledger's block watermark, and persists the block (§4.5).
func (tr *Transactor) SealBlock(ctx context.Context) (sealed *block.Block, err error) {
	tm := timer.NewTimer()
	defer func() {
		log.WithFields(tm.ToLogFields()).WithError(err).Debug("transactor seal block")
	}()

	tr.mu.Lock()
	txs := tr.pending
	tr.pending = nil
	tr.mu.Unlock()

	if len(txs) == 0 {
		err = errors.New("transactor: no pending transactions to seal")
		return nil, err
	}

	cache := tr.Ledger.Schema()
	instant := time.Now().UnixNano() / int64(time.Millisecond)
	sealed, err = tr.Builder.Seal(tr.Ledger.T(), tr.Ledger.Block(), tr.Ledger.LastHash(), txs, cache, instant)
	if err != nil {
		return nil, err
	}
	tm.Add("seal")

	tr.Ledger.Novelty().Absorb(sealed.HeaderFlakes, tr.Ledger.Lookup())
	tr.Ledger.AdvanceBlock(sealed.Header.Number, sealed.Header.Hash)
	tm.Add("absorb")

	if err = block.Persist(ctx, tr.Storage, tr.Ledger.Network, tr.Ledger.DBID, sealed); err != nil {
		return nil, err
	}
	tm.Add("persist")
	return sealed, nil
}
