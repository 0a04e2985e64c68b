package config

import (
	"encoding/json"
	"errors"
	"os"
)

type Config struct {
	Server struct {
		WebsocketPort int `json:"websocket_port"`
		HealthPort    int `json:"health_port"`
	} `json:"server"`
	Pipeline struct {
		KeypointWindowSize  int    `json:"keypoint_window_size"`
		SmoothingWindowSize int    `json:"smoothing_window_size"`
		WorkerPoolSize      int    `json:"worker_pool_size"`
		FrameTimeout        string `json:"frame_timeout"` // empty disables the per-frame timeout
	} `json:"pipeline"`
	Throttle struct {
		MinInterval          string  `json:"min_interval"`
		ProbabilityThreshold float64 `json:"probability_threshold"`
	} `json:"throttle"`
	Model struct {
		Type           string `json:"type"` // feedforward, recurrent or mock
		WeightsPath    string `json:"weights_path"`
		NumClasses     int    `json:"num_classes"`
		LandmarkPoints int    `json:"landmark_points"`
	} `json:"model"`
	Database struct {
		Host               string `json:"host"`
		Port               uint64 `json:"port"`
		Username           string `json:"username"`
		Password           string `json:"password"`
		Database           string `json:"database"`
		UseTLS             bool   `json:"use_tls"`
		ConnectTimeout     string `json:"connect_timeout"`
		SocketTimeout      string `json:"socket_timeout"`
		ConnectIdleTimeout string `json:"connect_idle_timeout"`
		OperationTimeout   string `json:"operation_timeout"`
		Heartbeat          string `json:"heartbeat"`
		MinPoolSize        uint64 `json:"min_pool_size"`
		MaxPoolSize        uint64 `json:"max_pool_size"`
	} `json:"database"`
	DebugMode bool   `json:"debug_mode"`
	AppName   string `json:"app_name"`
}

var config Config
var initialized = false

func applyDefaults(c *Config) {
	if c.Server.WebsocketPort == 0 {
		c.Server.WebsocketPort = 8765
	}
	if c.Server.HealthPort == 0 {
		c.Server.HealthPort = 8080
	}
	if c.Pipeline.KeypointWindowSize == 0 {
		c.Pipeline.KeypointWindowSize = 32
	}
	if c.Pipeline.SmoothingWindowSize == 0 {
		c.Pipeline.SmoothingWindowSize = 5
	}
	if c.Pipeline.WorkerPoolSize == 0 {
		c.Pipeline.WorkerPoolSize = 4
	}
	if c.Throttle.MinInterval == "" {
		c.Throttle.MinInterval = "75ms"
	}
	if c.Throttle.ProbabilityThreshold == 0 {
		c.Throttle.ProbabilityThreshold = 0.03
	}
	if c.Model.Type == "" {
		c.Model.Type = "mock"
	}
	if c.Model.NumClasses == 0 {
		c.Model.NumClasses = 29
	}
	if c.Model.LandmarkPoints == 0 {
		c.Model.LandmarkPoints = 21
	}
	if c.AppName == "" {
		c.AppName = "signify-backend"
	}
}

func ReadConfig() (Config, error) {
	bytes, err := os.ReadFile("config.json")

	if err != nil {
		applyDefaults(&config)
		writer, _ := os.OpenFile("config.json", os.O_WRONLY|os.O_CREATE, 0777)
		data, _ := json.MarshalIndent(config, "", "\t")
		_, _ = writer.Write(data)
		_ = writer.Close()
		return config, errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file")
	}

	err = json.Unmarshal(bytes, &config)

	if err != nil {
		return config, errors.New("the configuration file does not contain valid JSON")
	}

	applyDefaults(&config)
	initialized = true
	return config, nil
}

func GetConfig() (Config, error) {
	if initialized {
		return config, nil
	}
	return ReadConfig()
}
