package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	stupsCmd       = "go run ./cmd/stups compile -o out"
	compileTimeout = 30 * time.Second // go run includes a build
	jasminTimeout  = 10 * time.Second
	javaTimeout    = 5 * time.Second
)

type testResult struct {
	fileName string
	passed   bool
	output   string // failure details
	isGood   bool
}

func main() {
	fmt.Println("🧹 Cleaning output directory...")
	_ = os.RemoveAll("out")
	_ = os.Mkdir("out", 0755)

	failedTests := []testResult{}

	fmt.Println("\n🔍 Running good tests:")
	goodFiles, _ := filepath.Glob(filepath.Join("tests/good", "*.kt"))
	fmt.Printf("Found %d good test files...\n", len(goodFiles))

	goodPassed, goodFailed := 0, 0
	for _, file := range goodFiles {
		fmt.Printf("→ Running good test: %s\n", filepath.Base(file))
		res := runGoodTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s\n", res.fileName)
			goodPassed++
		} else {
			fmt.Printf("  ❌ %s\n", res.fileName)
			goodFailed++
			failedTests = append(failedTests, res)
		}
	}

	fmt.Println("\n💥 Running bad tests:")
	badFiles, _ := filepath.Glob(filepath.Join("tests/bad", "*.kt"))
	fmt.Printf("Found %d bad test files...\n", len(badFiles))

	badPassed, badFailed := 0, 0
	for _, file := range badFiles {
		fmt.Printf("→ Running bad test: %s\n", filepath.Base(file))
		res := runBadTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s (Failed as expected)\n", res.fileName)
			badPassed++
		} else {
			fmt.Printf("  ❌ %s (Unexpected Result)\n", res.fileName)
			badFailed++
			failedTests = append(failedTests, res)
		}
	}

	if len(failedTests) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failedTests {
			kind := "Bad Test"
			if failure.isGood {
				kind = "Good Test"
			}
			fmt.Printf("\n❌ Test: %s (%s)\n", failure.fileName, kind)
			fmt.Println("Reason:")
			fmt.Println(failure.output)
			fmt.Println("---")
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good Tests Summary: ✅ Passed: %d | ❌ Failed: %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad Tests Summary:  ✅ Passed: %d | ❌ Failed: %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		fmt.Println("\n🚨 Some tests failed!")
		os.Exit(1)
	}
	fmt.Println("\n🎉 All tests passed!")
}

// runGoodTest compiles file, compares the listing with the expected one
// and, when jasmin and java are installed, assembles and runs it.
func runGoodTest(file string) testResult {
	fileName := filepath.Base(file)
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	res := testResult{fileName: fileName, isGood: true}

	compileOutput, err := runCommandWithTimeout(exec.Command("sh", "-c", stupsCmd+" "+file), compileTimeout)
	if err != nil {
		res.output = fmt.Sprintf("stups compile failed: %v\nOutput:\n%s", err, compileOutput)
		return res
	}
	if strings.Contains(string(compileOutput), "Syntax Error:") || strings.Contains(string(compileOutput), "Semantic Error:") {
		res.output = fmt.Sprintf("stups compile produced errors:\nOutput:\n%s", compileOutput)
		return res
	}

	expectedPath := filepath.Join("tests/good/expected", name+".j")
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		res.output = fmt.Sprintf("Missing expected assembly: %s", expectedPath)
		return res
	}

	outfilePath := filepath.Join("out", name+".j")
	actual, err := os.ReadFile(outfilePath)
	if err != nil {
		res.output = fmt.Sprintf("Missing generated assembly: %s\nCompiler Output:\n%s", outfilePath, compileOutput)
		return res
	}

	expected = bytes.ReplaceAll(expected, []byte("\r\n"), []byte("\n"))
	actual = bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n"))
	if !bytes.Equal(expected, actual) {
		res.output = fmt.Sprintf("Assembly Mismatch\nExpected (%s):\n%s\nActual (%s):\n%s", expectedPath, expected, outfilePath, actual)
		return res
	}

	if _, err := exec.LookPath("jasmin"); err != nil {
		res.passed = true
		return res
	}
	jasminOutput, err := runCommandWithTimeout(exec.Command("jasmin", "-d", "out", outfilePath), jasminTimeout)
	if err != nil {
		res.output = fmt.Sprintf("jasmin failed for %s: %v\nOutput:\n%s", outfilePath, err, jasminOutput)
		return res
	}

	// A tests/good/expected/<name>.out file holds the program's stdout.
	wantStdout, err := os.ReadFile(filepath.Join("tests/good/expected", name+".out"))
	if err != nil {
		res.passed = true
		return res
	}
	if _, err := exec.LookPath("java"); err != nil {
		res.passed = true
		return res
	}
	gotStdout, err := runCommandWithTimeout(exec.Command("java", "-cp", "out", name), javaTimeout)
	if err != nil {
		res.output = fmt.Sprintf("java failed for %s: %v\nOutput:\n%s", name, err, gotStdout)
		return res
	}
	if !bytes.Equal(wantStdout, gotStdout) {
		res.output = fmt.Sprintf("Output Mismatch\nExpected:\n%s\nActual:\n%s", wantStdout, gotStdout)
		return res
	}

	res.passed = true
	return res
}

// runBadTest expects the compiler to exit non-zero with a diagnostic.
func runBadTest(file string) testResult {
	res := testResult{fileName: filepath.Base(file), isGood: false}

	outputBytes, err := runCommandWithTimeout(exec.Command("sh", "-c", stupsCmd+" "+file), compileTimeout)
	output := string(outputBytes)

	hasDiagnostic := false
	for _, pattern := range []string{"Syntax Error:", "Semantic Error:", "extension"} {
		if strings.Contains(output, pattern) {
			hasDiagnostic = true
			break
		}
	}

	switch {
	case err != nil && hasDiagnostic:
		res.passed = true
	case err != nil:
		res.output = fmt.Sprintf("Failed, but no diagnostic detected.\nExit Err: %v\nOutput:\n%s", err, output)
	default:
		res.output = fmt.Sprintf("Expected failure but got success.\nOutput:\n%s", output)
	}
	return res
}

func runCommandWithTimeout(cmd *exec.Cmd, timeout time.Duration) ([]byte, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Start(); err != nil {
		return out.Bytes(), fmt.Errorf("failed to start command '%s': %w", cmd.String(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		if killErr := cmd.Process.Kill(); killErr != nil {
			return out.Bytes(), fmt.Errorf("command '%s' timed out after %v and failed to kill: %w", cmd.String(), timeout, killErr)
		}
		return out.Bytes(), fmt.Errorf("command '%s' timed out after %v", cmd.String(), timeout)
	case err := <-done:
		return out.Bytes(), err
	}
}
