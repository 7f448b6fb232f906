package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, chat dispatch can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Chat Relay API Smoke Test\n")

	color.Yellow("\n1. Service Status")
	resp, body, err := sendRequest("GET", "/chat/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n2. Create Chat Session")
	resp, body, err = sendRequest("POST", "/chat-sessions", map[string]interface{}{
		"title":     "Smoke Test Session",
		"authority": "SDM",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	var created struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &created)
	sessionId := created.Data.Id
	if sessionId == "" {
		color.Red("No session id in response, aborting")
		os.Exit(1)
	}

	color.Yellow("\n3. Send Message (auto-title from first message)")
	resp, body, err = sendRequest("POST", "/chat-sessions/"+sessionId+"/messages", map[string]interface{}{
		"content":   "Bagaimana prosedur pengajuan cuti tahunan?",
		"authority": "SDM",
		"category":  "general",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n4. Session With Messages")
	resp, body, err = sendRequest("GET", "/chat-sessions/"+sessionId, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n5. Search Sessions")
	resp, body, err = sendRequest("GET", "/chat-sessions-search?q=cuti", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n6. Session Stats")
	resp, body, err = sendRequest("GET", "/chat-sessions-stats", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n7. Upload Limits")
	resp, body, err = sendRequest("GET", "/upload/limits", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n8. Delete Session")
	resp, body, err = sendRequest("DELETE", "/chat-sessions/"+sessionId, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\n✅ Smoke test finished")
}
