package cmd

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// HostSummary describes the CPU the benchmark runs on, for the report header.
// Lookup failures degrade to the Go scheduler view only.
func HostSummary() string {
	procs := runtime.GOMAXPROCS(0)

	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		logrus.Debugf("CPU info unavailable: %v", err)
		return fmt.Sprintf("GOMAXPROCS=%d", procs)
	}
	logical, err := cpu.Counts(true)
	if err != nil {
		logrus.Debugf("logical CPU count unavailable: %v", err)
		logical = runtime.NumCPU()
	}
	return fmt.Sprintf("%s, %d logical CPUs, GOMAXPROCS=%d", infos[0].ModelName, logical, procs)
}
