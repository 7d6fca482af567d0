// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"errors"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPrint(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	log.Print("hello log")
	assert.Contains(t, buf.String(), "hello log")
}

func TestLogrusPrint(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	logrus.Print("hello logrus")
	assert.Contains(t, buf.String(), "hello logrus")
}

func TestInternalFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 3, 16, 13, 10, 42, 358000000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Engine refused to pause",
		Data: logrus.Fields{
			"group": "shader",
			"error": errors.New("EngineBusy"),
			"frame": 12,
			"path":  "/tmp/my overrides.yaml",
		},
	}

	out, err := (&InternalFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t,
		"2024-03-16T13:10:42.358Z [aton] WARNING Engine refused to pause error=\"EngineBusy\" frame=12 group=shader path=\"/tmp/my overrides.yaml\"\n",
		string(out))
}

func TestSetLogLevel(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetLogLevel("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.Debug("visible")
	assert.Contains(t, buf.String(), "[aton] DEBUG visible")
}

func BenchmarkLogrusPrint(b *testing.B) {
	SetOutput(ioutil.Discard)
	logrus.SetFormatter(&InternalFormatter{})
	for n := 0; n < b.N; n++ {
		logrus.WithField("frame", n).Print("frame rendered")
	}
}
