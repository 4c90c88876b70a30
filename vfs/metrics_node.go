// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vfs

import (
	"sync"
	"time"

	"github.com/jacobsa/timeutil"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/unix"
)

var (
	nodePrometheusMetrics sync.Once

	nodeOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ramfs",
			Subsystem: "node",
			Name:      "operations_duration_seconds",
			Help:      "Amount of time spent per operation on file system nodes, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		},
		[]string{"operation", "status_code"})
	nodeBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ramfs",
			Subsystem: "node",
			Name:      "bytes_total",
			Help:      "Total number of bytes read from and written to file system nodes.",
		},
		[]string{"direction"})

	nodeBytesRead    = nodeBytesTotal.WithLabelValues("read")
	nodeBytesWritten = nodeBytesTotal.WithLabelValues("write")
)

// Decorate a node so that the duration and outcome of every operation is
// recorded in Prometheus. Children returned by Lookup are decorated as well.
func NewMetricsNode(base Node, clock timeutil.Clock) Node {
	nodePrometheusMetrics.Do(func() {
		prometheus.MustRegister(nodeOperationsDurationSeconds)
		prometheus.MustRegister(nodeBytesTotal)
	})

	return &metricsNode{
		base:  base,
		clock: clock,
	}
}

type metricsNode struct {
	base  Node
	clock timeutil.Clock
}

func (n *metricsNode) observe(operation string, start time.Time, err error) {
	status := "OK"
	if err != nil {
		// Use unix.ErrnoName() so that labels don't depend on the numbering
		// of the host operating system.
		status = unix.ErrnoName(ToErrno(err))
	}

	nodeOperationsDurationSeconds.
		WithLabelValues(operation, status).
		Observe(n.clock.Now().Sub(start).Seconds())
}

func (n *metricsNode) GetAttr() (attr NodeAttr, err error) {
	start := n.clock.Now()
	attr, err = n.base.GetAttr()
	n.observe("GetAttr", start, err)
	return
}

func (n *metricsNode) Truncate(size uint64) (err error) {
	start := n.clock.Now()
	err = n.base.Truncate(size)
	n.observe("Truncate", start, err)
	return
}

func (n *metricsNode) ReadAt(offset uint64, buf []byte) (count int, err error) {
	start := n.clock.Now()
	count, err = n.base.ReadAt(offset, buf)
	n.observe("ReadAt", start, err)
	nodeBytesRead.Add(float64(count))
	return
}

func (n *metricsNode) WriteAt(offset uint64, buf []byte) (count int, err error) {
	start := n.clock.Now()
	count, err = n.base.WriteAt(offset, buf)
	n.observe("WriteAt", start, err)
	nodeBytesWritten.Add(float64(count))
	return
}

func (n *metricsNode) SetAtime(t uint64) (err error) {
	start := n.clock.Now()
	err = n.base.SetAtime(t)
	n.observe("SetAtime", start, err)
	return
}

func (n *metricsNode) SetMtime(t uint64) (err error) {
	start := n.clock.Now()
	err = n.base.SetMtime(t)
	n.observe("SetMtime", start, err)
	return
}

func (n *metricsNode) Lookup(name string) (child Node, err error) {
	start := n.clock.Now()
	child, err = n.base.Lookup(name)
	n.observe("Lookup", start, err)
	if child != nil {
		child = &metricsNode{base: child, clock: n.clock}
	}

	return
}

func (n *metricsNode) Create(name string, t NodeType) (err error) {
	start := n.clock.Now()
	err = n.base.Create(name, t)
	n.observe("Create", start, err)
	return
}

func (n *metricsNode) Remove(name string) (err error) {
	start := n.clock.Now()
	err = n.base.Remove(name)
	n.observe("Remove", start, err)
	return
}

func (n *metricsNode) ReadDir(start int, entries []DirEntry) (count int, err error) {
	timeStart := n.clock.Now()
	count, err = n.base.ReadDir(start, entries)
	n.observe("ReadDir", timeStart, err)
	return
}

func (n *metricsNode) Open() (err error) {
	start := n.clock.Now()
	err = n.base.Open()
	n.observe("Open", start, err)
	return
}

func (n *metricsNode) Release() (err error) {
	start := n.clock.Now()
	err = n.base.Release()
	n.observe("Release", start, err)
	return
}

func (n *metricsNode) Fsync() (err error) {
	start := n.clock.Now()
	err = n.base.Fsync()
	n.observe("Fsync", start, err)
	return
}

// Parent is not instrumented; it is a pure accessor.
func (n *metricsNode) Parent() Node {
	return n.base.Parent()
}
