package testmgr

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

type RunStatus int

const (
	RunStatusNotStarted RunStatus = iota
	RunStatusRunning
	RunStatusPassed
	RunStatusFailed
)

func (rs RunStatus) String() string {
	switch rs {
	case RunStatusNotStarted:
		return "NOT STARTED"
	case RunStatusRunning:
		return "RUNNING"
	case RunStatusPassed:
		return "PASS"
	case RunStatusFailed:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

func (rs RunStatus) ColorString() string {
	switch rs {
	case RunStatusPassed:
		return color.GreenString(rs.String())
	case RunStatusFailed:
		return color.RedString(rs.String())
	case RunStatusRunning:
		return color.CyanString(rs.String())
	default:
		return color.YellowString(rs.String())
	}
}

func (rs RunStatus) logLevel() logrus.Level {
	switch rs {
	case RunStatusFailed:
		return logrus.ErrorLevel
	case RunStatusNotStarted:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

func (rs RunStatus) IsRunning() bool {
	return rs == RunStatusRunning
}

// IsFinished returns true once the run has been stopped.
func (rs RunStatus) IsFinished() bool {
	return rs == RunStatusPassed || rs == RunStatusFailed
}

func (rs RunStatus) Passed() bool {
	return rs == RunStatusPassed
}

func (rs RunStatus) Failed() bool {
	return rs == RunStatusFailed
}
