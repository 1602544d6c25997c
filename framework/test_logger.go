package framework

// TestLogger receives status information during a test run, such as which test is
// currently running, so that progress can be reported to the console as it happens.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, result TestResult, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                              {}
func (n nullTestLogger) TestError(TestID, error)                         {}
func (n nullTestLogger) TestFinished(TestID, TestResult, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                      {}
