package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
)

// Per-action thresholds inside the activity window. Exceeding any of them
// flags the user.
var actionThresholds = map[string]int{
	mpmodel.ActionCreate: 50,
	mpmodel.ActionRead:   1000,
	mpmodel.ActionUpdate: 100,
	mpmodel.ActionDelete: 20,
}

type ActivityMonitorOptionFN func(*ActivityMonitor)

type ActivityMonitor struct {
	userStor          stor.UserStor
	userLogStor       stor.UserLogStor
	monitoredUserStor stor.MonitoredUserStor
	checkInterval     time.Duration
	activityWindow    time.Duration
}

func NewActivityMonitor(optFNs ...ActivityMonitorOptionFN) *ActivityMonitor {
	m := &ActivityMonitor{
		checkInterval:  5 * time.Minute,
		activityWindow: 24 * time.Hour,
	}

	for _, optfn := range optFNs {
		optfn(m)
	}

	return m
}

func WithUserStor(userStor stor.UserStor) ActivityMonitorOptionFN {
	return func(m *ActivityMonitor) {
		m.userStor = userStor
	}
}

func WithUserLogStor(userLogStor stor.UserLogStor) ActivityMonitorOptionFN {
	return func(m *ActivityMonitor) {
		m.userLogStor = userLogStor
	}
}

func WithMonitoredUserStor(monitoredUserStor stor.MonitoredUserStor) ActivityMonitorOptionFN {
	return func(m *ActivityMonitor) {
		m.monitoredUserStor = monitoredUserStor
	}
}

func WithCheckInterval(interval time.Duration) ActivityMonitorOptionFN {
	return func(m *ActivityMonitor) {
		m.checkInterval = interval
	}
}

func WithActivityWindow(window time.Duration) ActivityMonitorOptionFN {
	return func(m *ActivityMonitor) {
		m.activityWindow = window
	}
}

func (m *ActivityMonitor) Run(c context.Context) {
	for {
		m.CheckAllUsers()
		select {
		case <-c.Done():
			return
		case <-time.After(m.checkInterval):
		}
	}
}

func (m *ActivityMonitor) CheckAllUsers() {
	users, err := m.userStor.ListUsers()
	if err != nil {
		// Problem connecting to the database. Log and wait for the next
		// pass rather than hammering a database that may be recovering.
		log.Errorf("Activity monitor failed listing users: %s", err)
		return
	}

	for _, user := range users {
		if _, err := m.CheckUserActivity(user.ID); err != nil {
			log.Errorf("Activity check for user %d failed: %s", user.ID, err)
		}
	}
}

// CheckUserActivity counts the user's logged actions inside the activity
// window and flags the user when any action count exceeds its threshold.
// Returns true when the user was flagged.
func (m *ActivityMonitor) CheckUserActivity(userID int) (bool, error) {
	since := time.Now().Add(-m.activityWindow)

	logs, err := m.userLogStor.GetLogsForUserSince(userID, since)
	if err != nil {
		return false, err
	}

	actionCounts := make(map[string]int)
	for _, userLog := range logs {
		actionCounts[userLog.Action]++
	}

	var suspicious []string
	for action, count := range actionCounts {
		threshold, known := actionThresholds[action]
		if known && count > threshold {
			suspicious = append(suspicious, fmt.Sprintf("%s: %d actions", action, count))
		}
	}

	if len(suspicious) == 0 {
		return false, nil
	}

	sort.Strings(suspicious)
	reason := strings.Join(suspicious, ", ")

	if _, err := m.monitoredUserStor.UpsertMonitoredUser(userID, reason); err != nil {
		return false, err
	}

	log.Warnf("User %d flagged for suspicious activity: %s", userID, reason)

	return true, nil
}
