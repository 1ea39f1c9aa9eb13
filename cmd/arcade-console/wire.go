//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/console/internal/console/client"
	"github.com/go-arcade/console/internal/console/conf"
	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/google/wire"
)

func initConsole(appConf *conf.AppConfig) (*consoleApp, func(), error) {
	panic(wire.Build(
		// 配置层
		conf.ProviderSet,
		// 缓存层
		cache.ProviderSet,
		// 指标
		metrics.ProviderSet,
		// 后端 API
		client.ProviderSet,
		newConsoleApp,
	))
}
