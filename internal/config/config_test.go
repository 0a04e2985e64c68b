package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	var c Config
	applyDefaults(&c)

	if c.Server.WebsocketPort != 8765 {
		t.Errorf("unexpected default websocket port: %d", c.Server.WebsocketPort)
	}
	if c.Pipeline.KeypointWindowSize != 32 || c.Pipeline.SmoothingWindowSize != 5 {
		t.Errorf("unexpected default window sizes: %d/%d",
			c.Pipeline.KeypointWindowSize, c.Pipeline.SmoothingWindowSize)
	}
	if c.Throttle.MinInterval != "75ms" || c.Throttle.ProbabilityThreshold != 0.03 {
		t.Errorf("unexpected throttle defaults: %s/%v",
			c.Throttle.MinInterval, c.Throttle.ProbabilityThreshold)
	}
	if c.Model.Type != "mock" || c.Model.NumClasses != 29 {
		t.Errorf("unexpected model defaults: %s/%d", c.Model.Type, c.Model.NumClasses)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	var c Config
	c.Server.WebsocketPort = 9000
	c.Pipeline.WorkerPoolSize = 8
	applyDefaults(&c)

	if c.Server.WebsocketPort != 9000 {
		t.Errorf("explicit port overwritten: %d", c.Server.WebsocketPort)
	}
	if c.Pipeline.WorkerPoolSize != 8 {
		t.Errorf("explicit pool size overwritten: %d", c.Pipeline.WorkerPoolSize)
	}
}
