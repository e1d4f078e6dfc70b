package redis

import (
	"fmt"
	"strings"
)

type CfgRedis struct {
	UseCluster       bool
	EnableTLS        bool
	RedisHost        string
	RedisPort        int
	RedisPassword    string
	RedisDB          int
	RedisClusterNode string
}

func (c CfgRedis) Addr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func (c CfgRedis) ClusterHosts() []string {
	hosts := make([]string, 0)
	for _, h := range strings.Split(c.RedisClusterNode, ";") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
