package chunk

import "runtime"

// memoryCheckInterval is the number of records between memory samples.
const memoryCheckInterval = 10

// MemorySampler reports approximate memory use in megabytes.
type MemorySampler interface {
	SampleMB() float64
}

// SamplerFunc adapts a function to MemorySampler.
type SamplerFunc func() float64

// SampleMB implements MemorySampler.
func (f SamplerFunc) SampleMB() float64 { return f() }

// RuntimeSampler samples the Go heap and stacks in use.
type RuntimeSampler struct{}

// SampleMB implements MemorySampler.
func (RuntimeSampler) SampleMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc+m.StackInuse) / (1024 * 1024)
}
