package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	// Test setting a custom logger
	called := false
	customLogger := func(format string, v ...interface{}) {
		called = true
	}

	SetLogger(customLogger)
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// Test setting nil logger (should create no-op)
	SetLogger(nil)
	// This should not panic
	Logf("test message")

	// Now set to nil and verify it doesn't call our logger
	noOpCalled := false
	SetLogger(func(format string, v ...interface{}) { noOpCalled = true })
	Logf("test")
	if !noOpCalled {
		t.Error("Test logger should have been called")
	}

	noOpCalled = false
	SetLogger(nil)
	Logf("test")
	if noOpCalled {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestDebugf_VerboseGate(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetVerbose(false)
	}()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })

	SetVerbose(false)
	Debugf("should be suppressed")
	if called {
		t.Error("Debugf should not log when verbose is off")
	}

	SetVerbose(true)
	if !Verbose() {
		t.Error("Verbose() should report true after SetVerbose(true)")
	}
	Debugf("should be logged")
	if !called {
		t.Error("Debugf should log when verbose is on")
	}
}
