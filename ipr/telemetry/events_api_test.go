// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventsAPI struct {
	mock.Mock
}

func (m *mockEventsAPI) SendSessionStarted(d SessionStartedData) error {
	return m.Called(d).Error(0)
}
func (m *mockEventsAPI) SendSessionStopped(d SessionStoppedData) error {
	return m.Called(d).Error(0)
}
func (m *mockEventsAPI) SendOverridesApplied(d OverridesAppliedData) error {
	return m.Called(d).Error(0)
}
func (m *mockEventsAPI) SendSequenceStarted(d SequenceStartedData) error {
	return m.Called(d).Error(0)
}
func (m *mockEventsAPI) SendSequenceStepped(d SequenceSteppedData) error {
	return m.Called(d).Error(0)
}
func (m *mockEventsAPI) SendSequenceStopped(d SequenceStoppedData) error {
	return m.Called(d).Error(0)
}

func TestStandaloneEventsAPIRecordsEvents(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 16, 13, 10, 42, 0, time.UTC))
	api := NewStandaloneEventsAPI(clock)

	var heard []EventType
	api.AddListener(func(e Event) { heard = append(heard, e.Type) })

	require.NoError(t, api.SendSessionStarted(SessionStartedData{SessionID: "s1", Camera: "perspShape", Width: 960, Height: 540}))
	require.NoError(t, api.SendSequenceStarted(SequenceStartedData{Frames: []int{1, 2}}))
	require.NoError(t, api.SendSequenceStepped(SequenceSteppedData{Index: 0, Frame: 1, Total: 2}))
	require.NoError(t, api.SendSequenceStopped(SequenceStoppedData{Cancelled: true, Stepped: 1, Total: 2}))
	require.NoError(t, api.SendSessionStopped(SessionStoppedData{SessionID: "s1"}))

	events := api.EventLog().Events
	require.Len(t, events, 5)
	assert.Equal(t, []EventType{SessionStart, SequenceStart, SequenceStep, SequenceStop, SessionStop}, heard)
	assert.Equal(t, "2024-03-16T13:10:42Z", events[0].Time)
	assert.Equal(t, 960, events[0].Record["width"])
	assert.Equal(t, 2, events[1].Record["total"])
	assert.Equal(t, true, events[3].Record["cancelled"])
	assert.NotEqual(t, events[0].ID, events[1].ID)

	api.Reset()
	assert.Empty(t, api.EventLog().Events)
}

func TestFanoutCallsEveryAPI(t *testing.T) {
	failing := &mockEventsAPI{}
	healthy := &mockEventsAPI{}
	data := OverridesAppliedData{SessionID: "s1", Groups: []string{"shader"}}
	failing.On("SendOverridesApplied", data).Return(errors.New("boom"))
	healthy.On("SendOverridesApplied", data).Return(nil)

	err := Fanout{failing, healthy, &NoOpEventsAPI{}}.SendOverridesApplied(data)
	assert.EqualError(t, err, "boom")
	failing.AssertExpectations(t)
	healthy.AssertExpectations(t)
}
