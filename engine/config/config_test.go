package config

import (
	"testing"

	"encoding/json"

	"fmt"

	"time"

	"github.com/bmizerany/assert"
	"github.com/playnet/gamelb/engine/lblog"
)

func init() {
	SetConfigFile("../../gamelb.ini.sample")
}

func TestLoad(t *testing.T) {
	config := Get()
	lblog.Debugf("gamelb config: \n%s", DumpPretty(config))
	if config == nil {
		t.FailNow()
	}
	if config.Balancer.ServerCount <= 0 {
		t.Errorf("server count not found")
	}
	for id, serverConfig := range config.Servers {
		if serverConfig.MinProcessTime <= 0 {
			t.Errorf("server %d min process time invalid", id)
		}
		if serverConfig.MaxProcessTime < serverConfig.MinProcessTime {
			t.Errorf("server %d max process time invalid", id)
		}
	}
}

func TestReload(t *testing.T) {
	Get()
	config := Reload()
	lblog.Debugf("gamelb config: \n%s", DumpPretty(config))
}

func TestGetBalancer(t *testing.T) {
	cfg := GetBalancer()
	cfgStr, _ := json.Marshal(cfg)
	fmt.Printf("balancer config: %s", string(cfgStr))
	assert.Equal(t, cfg.ServerCount, 3)
}

func TestGetServer(t *testing.T) {
	for i := 0; i < GetBalancer().ServerCount; i++ {
		cfg := GetServer(i)
		if cfg == nil {
			t.Errorf("server %d config not found", i)
		}
		lblog.Infof("server %d config: %v", i, cfg)
	}
	// server2 overrides server_common in the sample config
	assert.Equal(t, GetServer(1).MinProcessTime, time.Millisecond*500)
	assert.Equal(t, GetServer(0).MinProcessTime, time.Second*1)
}

func TestGetMetrics(t *testing.T) {
	cfg := GetMetrics()
	if cfg == nil {
		t.Errorf("metrics config not found")
	}
	assert.Equal(t, cfg.Type, "csv")
	assert.T(t, cfg.File != "", "metrics file is empty")
}

func TestGetSimulation(t *testing.T) {
	cfg := GetSimulation()
	assert.Equal(t, cfg.NumPlayers, 20)
	assert.Equal(t, cfg.ConnectInterval, time.Millisecond*500)
}

func TestSetConfigFile(t *testing.T) {
	SetConfigFile("gamelb.ini")
}
