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

package vfs_test

import (
	"time"

	"github.com/jacobsa/ramfs/ramfs"
	"github.com/jacobsa/ramfs/vfs"
	"github.com/jacobsa/timeutil"
	"github.com/prometheus/client_golang/prometheus"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
)

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Return the value of the counter, or the sample count of the histogram,
// with the given name and labels in the default registry. Missing series
// count as zero.
func metricValue(name string, labels map[string]string) float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	AssertEq(nil, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}

	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v != lp.GetValue() {
					continue metrics
				}
			}

			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}

			return m.GetCounter().GetValue()
		}
	}

	return 0
}

func operationCount(operation string, status string) float64 {
	return metricValue(
		"ramfs_node_operations_duration_seconds",
		map[string]string{"operation": operation, "status_code": status})
}

func bytesCount(direction string) float64 {
	return metricValue(
		"ramfs_node_bytes_total",
		map[string]string{"direction": direction})
}

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type MetricsNodeTest struct {
	clock timeutil.SimulatedClock
	base  *ramfs.FileNode
	node  vfs.Node
}

var _ SetUpInterface = &MetricsNodeTest{}

func init() { RegisterTestSuite(&MetricsNodeTest{}) }

func (t *MetricsNodeTest) SetUp(ti *TestInfo) {
	t.clock.SetTime(time.Date(2015, 4, 5, 2, 15, 0, 0, time.Local))
	t.base = ramfs.NewFileNode()
	t.node = vfs.NewMetricsNode(t.base, &t.clock)
}

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (t *MetricsNodeTest) ForwardsToBase() {
	n, err := t.node.WriteAt(0, []byte("taco"))
	AssertEq(nil, err)
	ExpectEq(4, n)
	ExpectEq("taco", string(t.base.Bytes()))

	AssertEq(nil, t.node.Truncate(2))
	AssertEq(nil, t.node.SetAtime(3))
	AssertEq(nil, t.node.SetMtime(4))

	buf := make([]byte, 4)
	n, err = t.node.ReadAt(0, buf)
	AssertEq(nil, err)
	ExpectEq(2, n)
	ExpectEq("ta", string(buf[:n]))

	attr, err := t.node.GetAttr()
	AssertEq(nil, err)
	ExpectEq(2, attr.Size)
	ExpectEq(3, attr.Atime)
	ExpectEq(4, attr.Mtime)
}

func (t *MetricsNodeTest) CountsBytes() {
	readBefore := bytesCount("read")
	writtenBefore := bytesCount("write")

	_, err := t.node.WriteAt(3, []byte("burrito"))
	AssertEq(nil, err)

	_, err = t.node.ReadAt(8, make([]byte, 100))
	AssertEq(nil, err)

	ExpectEq(7, bytesCount("write")-writtenBefore)
	ExpectEq(2, bytesCount("read")-readBefore)
}

func (t *MetricsNodeTest) RecordsOperations() {
	before := operationCount("Truncate", "OK")

	AssertEq(nil, t.node.Truncate(10))
	AssertEq(nil, t.node.Truncate(0))

	ExpectEq(2, operationCount("Truncate", "OK")-before)
}

func (t *MetricsNodeTest) RecordsFailuresByErrnoName() {
	before := operationCount("Lookup", "ENOTDIR")

	child, err := t.node.Lookup("foo")
	ExpectEq(vfs.ENOTDIR, err)
	ExpectEq(nil, child)

	ExpectEq(1, operationCount("Lookup", "ENOTDIR")-before)
}

func (t *MetricsNodeTest) DirectoryOpsStillUnsupported() {
	ExpectEq(vfs.ENOTDIR, t.node.Create("foo", vfs.TypeFile))
	ExpectEq(vfs.ENOTDIR, t.node.Remove("foo"))

	_, err := t.node.ReadDir(0, nil)
	ExpectThat(err, Equals(vfs.ENOTDIR))
}

func (t *MetricsNodeTest) HandleOps() {
	ExpectEq(nil, t.node.Open())
	ExpectEq(nil, t.node.Fsync())
	ExpectEq(nil, t.node.Release())
	ExpectEq(nil, t.node.Parent())
}
