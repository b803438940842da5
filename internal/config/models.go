package config

import (
	"fmt"

	"github.com/aretw0/rail/pkg/adapters/file"
	"github.com/aretw0/rail/pkg/adapters/loam"
	"github.com/aretw0/rail/pkg/adapters/memory"
	"github.com/aretw0/rail/pkg/adapters/redis"
	"github.com/aretw0/rail/pkg/ports"
)

// OpenModels builds the model store selected by m. The returned close
// function releases connections and is never nil.
func OpenModels(m Models) (ports.ModelStore, func() error, error) {
	noop := func() error { return nil }
	switch m.Source {
	case "memory":
		return memory.NewRegistry(), noop, nil
	case "file":
		return file.New(m.Path), noop, nil
	case "loam":
		reg, err := loam.Open(m.Path)
		if err != nil {
			return nil, noop, err
		}
		return reg, noop, nil
	case "redis":
		reg := redis.New(m.Redis.Addr, m.Redis.Password, m.Redis.DB, redis.WithPrefix(m.Redis.Prefix))
		return reg, reg.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown model source %q", m.Source)
}
