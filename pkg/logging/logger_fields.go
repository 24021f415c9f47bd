package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}

// Counting request fields

func Mode(mode string) Field {
	return String("mode", mode)
}

func Size(k int) Field {
	return Int("size", k)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(m int) Field {
	return Int("edges", m)
}

func Subgraphs(n uint64) Field {
	return Uint64("subgraphs", n)
}

func BatchID(id string) Field {
	return String("batch_id", id)
}

func BatchSize(n int) Field {
	return Int("batch_size", n)
}

func GraphIndex(i int) Field {
	return Int("graph_index", i)
}

func Workers(n int) Field {
	return Int("workers", n)
}

func Digest(hex string) Field {
	return String("digest", hex)
}
