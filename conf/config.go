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

// Package conf holds the node's key/value configuration (§6 of the design):
// which mode to start in, which consensus/storage backend to wire up, and
// the size/time thresholds that gate novelty reindexing and group timeouts.
package conf

import (
	"io/ioutil"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/flakedb/ledger/errkind"
)

// Mode gates which subsystems a process starts.
type Mode string

// Recognized modes.
const (
	ModeDev    Mode = "dev"
	ModeQuery  Mode = "query"
	ModeLedger Mode = "ledger"
)

// ConsensusType selects the replication backend.
type ConsensusType string

// Recognized consensus types.
const (
	ConsensusRaft     ConsensusType = "raft"
	ConsensusInMemory ConsensusType = "in-memory"
)

// StorageType selects the blob storage backend.
type StorageType string

// Recognized storage types.
const (
	StorageFile   StorageType = "file"
	StorageMemory StorageType = "memory"
	StorageS3     StorageType = "s3"
	StorageStash  StorageType = "stash"
)

// Recognized configuration keys (§6).
const (
	KeyMode               = "fdb-mode"
	KeyConsensusType       = "fdb-consensus-type"
	KeyStorageType         = "fdb-storage-type"
	KeyStorageFileDir      = "fdb-storage-file-directory"
	KeyStorageS3Bucket     = "fdb-storage-s3-bucket"
	KeyMemoryCache         = "fdb-memory-cache"
	KeyMemoryReindex       = "fdb-memory-reindex"
	KeyMemoryReindexMax    = "fdb-memory-reindex-max"
	KeyGroupServers        = "fdb-group-servers"
	KeyGroupThisServer     = "fdb-group-this-server"
	KeyGroupTimeout        = "fdb-group-timeout"
	KeyEncryptionSecret    = "fdb-encryption-secret"
)

// defaults mirror conf/parameters.go's role as the single place the
// project's magic numbers live, repurposed for the ledger's own thresholds.
const (
	DefaultMemoryReindex    = "256mb"
	DefaultMemoryReindexMax = "1gb"
	DefaultGroupTimeout     = "2000ms"
)

// Config is the parsed, typed view of a node's key/value environment.
type Config struct {
	Mode            Mode
	ConsensusType   ConsensusType
	StorageType     StorageType
	StorageFileDir  string
	StorageS3Bucket string
	MemoryCache     int64
	MemoryReindex   int64
	MemoryReindexMax int64
	GroupServers    []GroupServer
	GroupThisServer string
	GroupTimeout    int64 // milliseconds
	EncryptionKey   []byte // 32 bytes, derived from fdb-encryption-secret; nil when unset
}

// GroupServer is one entry of fdb-group-servers: "id@host:port".
type GroupServer struct {
	ID   string
	Host string
}

// GConf is the process-wide parsed configuration, set once at startup.
var GConf *Config

// FromMap parses a flat key/value environment into a Config, applying the
// §6 defaults for thresholds left unset. Unknown keys are ignored so the
// same map can also carry keys this node's role does not consume.
func FromMap(kv map[string]string) (cfg *Config, err error) {
	cfg = &Config{}

	cfg.Mode = Mode(kv[KeyMode])
	cfg.ConsensusType = ConsensusType(kv[KeyConsensusType])
	cfg.StorageType = StorageType(kv[KeyStorageType])
	cfg.StorageFileDir = kv[KeyStorageFileDir]
	cfg.StorageS3Bucket = kv[KeyStorageS3Bucket]
	cfg.GroupThisServer = kv[KeyGroupThisServer]

	if cfg.MemoryCache, err = parseSizeOrDefault(kv[KeyMemoryCache], "0"); err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, KeyMemoryCache)
	}
	if cfg.MemoryReindex, err = parseSizeOrDefault(kv[KeyMemoryReindex], DefaultMemoryReindex); err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, KeyMemoryReindex)
	}
	if cfg.MemoryReindexMax, err = parseSizeOrDefault(kv[KeyMemoryReindexMax], DefaultMemoryReindexMax); err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, KeyMemoryReindexMax)
	}
	if cfg.MemoryReindexMax < cfg.MemoryReindex {
		return nil, errkind.New(errkind.InvalidConfiguration,
			errors.New("fdb-memory-reindex-max must be >= fdb-memory-reindex"), "")
	}

	if cfg.GroupTimeout, err = parseTimeMillisOrDefault(kv[KeyGroupTimeout], DefaultGroupTimeout); err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, KeyGroupTimeout)
	}

	if servers := kv[KeyGroupServers]; servers != "" {
		for _, entry := range strings.Split(servers, ",") {
			gs, perr := parseGroupServer(entry)
			if perr != nil {
				return nil, errkind.New(errkind.InvalidConfiguration, perr, KeyGroupServers)
			}
			cfg.GroupServers = append(cfg.GroupServers, gs)
		}
	}

	if secret := kv[KeyEncryptionSecret]; secret != "" {
		cfg.EncryptionKey = deriveEncryptionKey(secret)
	}

	log.WithFields(log.Fields{
		"mode":      cfg.Mode,
		"consensus": cfg.ConsensusType,
		"storage":   cfg.StorageType,
	}).Debug("parsed configuration")
	return cfg, nil
}

func parseGroupServer(entry string) (GroupServer, error) {
	idAndAddr := strings.SplitN(strings.TrimSpace(entry), "@", 2)
	if len(idAndAddr) != 2 || idAndAddr[0] == "" || idAndAddr[1] == "" {
		return GroupServer{}, errors.Errorf("malformed group server entry %q, want id@host:port", entry)
	}
	return GroupServer{ID: idAndAddr[0], Host: idAndAddr[1]}, nil
}

// LoadYAML loads a Config from a YAML file for the dev/query entrypoints
// that prefer a file over an ambient key/value map, modeled on the
// teacher's LoadConfig(configPath).
func LoadYAML(configPath string) (cfg *Config, err error) {
	raw := map[string]string{}
	b, err := ioutil.ReadFile(configPath)
	if err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, "read config file")
	}
	if err = yaml.Unmarshal(b, &raw); err != nil {
		return nil, errkind.New(errkind.InvalidConfiguration, err, "unmarshal config file")
	}
	return FromMap(raw)
}
