package config

import (
	"strings"

	"strconv"

	"fmt"

	"encoding/json"

	"sync"

	"time"

	"os"

	"path"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
	"github.com/playnet/gamelb/engine/consts"
	"github.com/playnet/gamelb/engine/lblog"
)

const (
	_DEFAULT_CONFIG_FILE     = "gamelb.ini"
	_DEFAULT_SERVER_COUNT    = 3
	_DEFAULT_LOG_LEVEL       = "debug"
	_DEFAULT_MIN_PROCESS     = time.Second * 1
	_DEFAULT_MAX_PROCESS     = time.Second * 3
	_DEFAULT_METRICS_TYPE    = "csv"
	_DEFAULT_METRICS_FILE    = "output/logs/metrics.csv"
	_DEFAULT_NUM_PLAYERS     = 20
	_DEFAULT_CONNECT_ITNERVL = time.Millisecond * 500
	_DEFAULT_PPROF_IP        = "127.0.0.1"
)

var (
	configFilePath = _DEFAULT_CONFIG_FILE
	gameLBConfig   *GameLBConfig
	configLock     sync.Mutex
)

// BalancerConfig defines fields of balancer config
type BalancerConfig struct {
	ServerCount int
	LogFile     string
	LogStderr   bool
	LogLevel    string
	PProfIp     string
	PProfPort   int
}

// ServerConfig defines fields of game server config
type ServerConfig struct {
	MinProcessTime time.Duration
	MaxProcessTime time.Duration
}

// MetricsConfig defines fields of metrics sink config
type MetricsConfig struct {
	Type       string // Type of metrics backend (csv, msgpack, mongodb)
	File       string // Output file path (csv, msgpack)
	Url        string // Connection URL (mongodb)
	DB         string // Database name (mongodb)
	Collection string // Collection name (mongodb)
}

// SimulationConfig defines fields of simulation config
type SimulationConfig struct {
	NumPlayers      int
	ConnectInterval time.Duration
}

// GameLBConfig defines the total gamelb config file structure
type GameLBConfig struct {
	Balancer     BalancerConfig
	ServerCommon ServerConfig
	Servers      map[int]*ServerConfig
	Metrics      MetricsConfig
	Simulation   SimulationConfig
}

// SetConfigFile sets the config file path (gamelb.ini by default)
func SetConfigFile(f string) {
	configFilePath = f
}

// GetConfigDir returns the directory of gamelb.ini. Relative output paths in
// the config resolve against this directory.
func GetConfigDir() string {
	dir, _ := path.Split(configFilePath)
	return dir
}

// Get returns the total gamelb config
func Get() *GameLBConfig {
	configLock.Lock()
	defer configLock.Unlock() // protect concurrent access from balancer & servers
	if gameLBConfig == nil {
		gameLBConfig = readGameLBConfig()
	}
	return gameLBConfig
}

// Reload forces gamelb to reload the whole config
func Reload() *GameLBConfig {
	configLock.Lock()
	gameLBConfig = nil
	configLock.Unlock()

	return Get()
}

// GetBalancer returns the balancer config
func GetBalancer() *BalancerConfig {
	return &Get().Balancer
}

// GetServer gets the server config of the server at pool index i (0-based),
// falling back to [server_common] when no [server<N>] section overrides it
func GetServer(i int) *ServerConfig {
	cfg := Get()
	if sc, ok := cfg.Servers[i+1]; ok {
		return sc
	}
	return &cfg.ServerCommon
}

// GetMetrics returns the metrics sink config
func GetMetrics() *MetricsConfig {
	return &Get().Metrics
}

// GetSimulation returns the simulation config
func GetSimulation() *SimulationConfig {
	return &Get().Simulation
}

// DumpPretty format config to string in pretty format
func DumpPretty(cfg interface{}) string {
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(s)
}

func readGameLBConfig() *GameLBConfig {
	config := GameLBConfig{
		Servers: map[int]*ServerConfig{},
	}
	lblog.Infof("Using config file: %s", configFilePath)
	iniFile, err := ini.Load(configFilePath)
	checkConfigError(err, "")

	serverCommonSec := iniFile.Section("server_common")
	readServerCommonConfig(serverCommonSec, &config.ServerCommon)
	readBalancerCommonDefaults(&config.Balancer)
	readMetricsDefaults(&config.Metrics)
	readSimulationDefaults(&config.Simulation)

	for _, sec := range iniFile.Sections() {
		secName := sec.Name()
		if secName == "DEFAULT" {
			continue
		}

		secName = strings.ToLower(secName)
		if secName == "server_common" {
			// handled before this loop
		} else if secName == "balancer" {
			_readBalancerConfig(sec, &config.Balancer)
		} else if len(secName) > 6 && secName[:6] == "server" {
			// per-server config
			id, err := strconv.Atoi(secName[6:])
			checkConfigError(err, fmt.Sprintf("invalid server name: %s", secName))
			config.Servers[id] = readServerConfig(sec, &config.ServerCommon)
		} else if secName == "metrics" {
			readMetricsConfig(sec, &config.Metrics)
		} else if secName == "simulation" {
			readSimulationConfig(sec, &config.Simulation)
		} else {
			lblog.Errorf("unknown section: %s", secName)
		}
	}

	validateConfig(&config)
	return &config
}

func readBalancerCommonDefaults(bc *BalancerConfig) {
	bc.ServerCount = _DEFAULT_SERVER_COUNT
	bc.LogFile = "gamelb.log"
	bc.LogStderr = true
	bc.LogLevel = _DEFAULT_LOG_LEVEL
	bc.PProfIp = _DEFAULT_PPROF_IP
	bc.PProfPort = 0 // pprof not enabled by default
}

func _readBalancerConfig(sec *ini.Section, config *BalancerConfig) {
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "server_count" {
			config.ServerCount = key.MustInt(config.ServerCount)
		} else if name == "log_file" {
			config.LogFile = key.MustString(config.LogFile)
		} else if name == "log_stderr" {
			config.LogStderr = key.MustBool(config.LogStderr)
		} else if name == "log_level" {
			config.LogLevel = key.MustString(config.LogLevel)
		} else if name == "pprof_ip" {
			config.PProfIp = key.MustString(config.PProfIp)
		} else if name == "pprof_port" {
			config.PProfPort = key.MustInt(config.PProfPort)
		} else {
			lblog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
}

func readServerCommonConfig(section *ini.Section, scc *ServerConfig) {
	scc.MinProcessTime = _DEFAULT_MIN_PROCESS
	scc.MaxProcessTime = _DEFAULT_MAX_PROCESS

	_readServerConfig(section, scc)
}

func readServerConfig(sec *ini.Section, serverCommonConfig *ServerConfig) *ServerConfig {
	var sc ServerConfig = *serverCommonConfig // copy from server_common
	_readServerConfig(sec, &sc)
	return &sc
}

func _readServerConfig(sec *ini.Section, sc *ServerConfig) {
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "min_process_time" {
			sc.MinProcessTime = secondsToDuration(key.MustFloat64(sc.MinProcessTime.Seconds()))
		} else if name == "max_process_time" {
			sc.MaxProcessTime = secondsToDuration(key.MustFloat64(sc.MaxProcessTime.Seconds()))
		} else {
			lblog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
}

func readMetricsDefaults(mc *MetricsConfig) {
	mc.Type = _DEFAULT_METRICS_TYPE
	mc.File = _DEFAULT_METRICS_FILE
}

func readMetricsConfig(sec *ini.Section, config *MetricsConfig) {
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "type" {
			config.Type = key.MustString(config.Type)
		} else if name == "file" {
			config.File = key.MustString(config.File)
		} else if name == "url" {
			config.Url = key.MustString(config.Url)
		} else if name == "db" {
			config.DB = key.MustString(config.DB)
		} else if name == "collection" {
			config.Collection = key.MustString(config.Collection)
		} else {
			lblog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
}

func readSimulationDefaults(sc *SimulationConfig) {
	sc.NumPlayers = _DEFAULT_NUM_PLAYERS
	sc.ConnectInterval = _DEFAULT_CONNECT_ITNERVL
}

func readSimulationConfig(sec *ini.Section, config *SimulationConfig) {
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "num_players" {
			config.NumPlayers = key.MustInt(config.NumPlayers)
		} else if name == "connect_interval" {
			config.ConnectInterval = secondsToDuration(key.MustFloat64(config.ConnectInterval.Seconds()))
		} else {
			lblog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func checkConfigError(err error, msg string) {
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		lblog.Panicf("read config error: %s", msg)
	}
}

func validateMetricsConfig(config *MetricsConfig) {
	if config.Type == "csv" || config.Type == "msgpack" {
		if config.File == "" {
			fmt.Fprintf(lblog.GetOutput(), "%s\n", DumpPretty(config))
			lblog.Panicf("invalid %s metrics config above", config.Type)
		}
	} else if config.Type == "mongodb" {
		// must set Url, DB and Collection for mongodb
		if config.Url == "" || config.DB == "" || config.Collection == "" {
			fmt.Fprintf(lblog.GetOutput(), "%s\n", DumpPretty(config))
			lblog.Panicf("invalid %s metrics config above", config.Type)
		}
	} else {
		lblog.Panicf("unknown metrics type: %s", config.Type)
		if consts.DEBUG_MODE {
			os.Exit(2)
		}
	}
}

func validateServerConfig(config *ServerConfig, secName string) {
	if config.MinProcessTime <= 0 {
		lblog.Panic(errors.Errorf("%s: min_process_time must be positive", secName))
	}
	if config.MaxProcessTime < config.MinProcessTime {
		lblog.Panic(errors.Errorf("%s: max_process_time must be >= min_process_time", secName))
	}
}

func validateConfig(config *GameLBConfig) {
	if config.Balancer.ServerCount <= 0 {
		lblog.Panicf("server_count must be at least 1, but is %d", config.Balancer.ServerCount)
	}

	validateServerConfig(&config.ServerCommon, "server_common")
	for id, sc := range config.Servers {
		if id < 1 || id > config.Balancer.ServerCount {
			lblog.Panicf("found section server%d, but server id must be 1~%d", id, config.Balancer.ServerCount)
		}
		validateServerConfig(sc, fmt.Sprintf("server%d", id))
	}

	if config.Simulation.NumPlayers < 0 {
		lblog.Panicf("num_players must not be negative, but is %d", config.Simulation.NumPlayers)
	}
	if config.Simulation.ConnectInterval < 0 {
		lblog.Panic(errors.Errorf("connect_interval must not be negative"))
	}

	validateMetricsConfig(&config.Metrics)
}
