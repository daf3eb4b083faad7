// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcbranch/branchdb"
	blog "github.com/btcsuite/btcbranch/internal/log"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	defaultDbType     = branchdb.LevelDB
	defaultDebugLevel = "info"
	defaultLogFile    = "branchtool.log"

	// setsDbName is the name of the branch set database directory.
	setsDbName = "branchsets"
)

var (
	defaultHomeDir  = btcutil.AppDataDir("branchtool", false)
	knownDbTypes    = branchdb.SupportedDBs()
	activeNetParams = &chaincfg.MainNetParams

	// netDataDir and netLogDir are the data and log directories of the
	// active network.  They are derived from cfg by setupGlobalConfig.
	netDataDir string
	netLogDir  string

	// Default global config.
	cfg = &config{
		DataDir:    filepath.Join(defaultHomeDir, "data"),
		LogDir:     filepath.Join(defaultHomeDir, "logs"),
		DbType:     defaultDbType,
		DebugLevel: defaultDebugLevel,
	}
)

// config defines the global configuration options.
type config struct {
	DataDir     string `short:"b" long:"datadir" description:"Directory to store branch sets"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DbType      string `long:"dbtype" description:"Database backend to use for branch sets"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	TestNet3    bool   `long:"testnet" description:"Use the test network"`
	RegTest     bool   `long:"regtest" description:"Use the regression test network"`
	SimNet      bool   `long:"simnet" description:"Use the simulation test network"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// setupGlobalConfig examines the global configuration options for any
// conditions which are invalid and selects the active network.  It leaves the
// log rotator alone so it can be called from tests.
func setupGlobalConfig() error {
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	activeNetParams = &chaincfg.MainNetParams
	if cfg.TestNet3 {
		numNets++
		activeNetParams = &chaincfg.TestNet3Params
	}
	if cfg.RegTest {
		numNets++
		activeNetParams = &chaincfg.RegressionNetParams
	}
	if cfg.SimNet {
		numNets++
		activeNetParams = &chaincfg.SimNetParams
	}
	if numNets > 1 {
		return errors.New("the testnet, regtest, and simnet params " +
			"can't be used together -- choose one of the three")
	}

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "the specified database type [%v] is invalid -- " +
			"supported types %v"
		return fmt.Errorf(str, cfg.DbType, knownDbTypes)
	}

	if err := blog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	// Namespace the data and log directories per network since branch
	// sets are stored by address.
	netDataDir = filepath.Join(cfg.DataDir, activeNetParams.Name)
	netLogDir = filepath.Join(cfg.LogDir, activeNetParams.Name)

	return nil
}

// loadStore opens the branch set database of the active network, creating it
// when it does not exist yet.
func loadStore() (*branchdb.Store, error) {
	dbPath := filepath.Join(netDataDir, setsDbName+"_"+cfg.DbType)

	// Create the database if it does not exist yet.
	if !fileExists(dbPath) {
		if err := os.MkdirAll(netDataDir, 0700); err != nil {
			return nil, err
		}
		log.Infof("Creating branch set database at '%s'", dbPath)
		return branchdb.Open(cfg.DbType, dbPath, true)
	}

	log.Debugf("Loading branch set database from '%s'", dbPath)
	return branchdb.Open(cfg.DbType, dbPath, false)
}

// setup validates the global options and starts writing the log file.  Every
// command calls it before doing any work.
func setup() error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	return blog.InitLogRotator(filepath.Join(netLogDir, defaultLogFile))
}
