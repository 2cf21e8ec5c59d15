/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/internal/request"
	"github.com/sirupsen/logrus"
)

const slackTimeout = 10 * time.Second

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

func slackPayload(project string, err error, at time.Time) slackMessage {
	return slackMessage{Blocks: []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: "Error From " + project + " 🐞", Emoji: true}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: "*Error:*\n" + err.Error()}}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: "*Time:*\n" + at.Format(time.RFC822)}}},
	}}
}

// SlackNotification posts err to the given slack webhook.
func SlackNotification(ctx context.Context, webhookURL, project string, err error) error {
	ctx, cancel := context.WithTimeout(ctx, slackTimeout)
	defer cancel()

	req, reqErr := request.NewJSONRequest(ctx, http.MethodPost, webhookURL, slackPayload(project, err, time.Now()), nil)
	if reqErr != nil {
		return reqErr
	}
	_, reqErr = request.Call(nil, req, nil)
	return reqErr
}

// NotifyError logs systemError and, when a slack webhook is configured,
// forwards it there in the background.
func NotifyError(systemError error) {
	logrus.Error(systemError)

	conf, err := config.Fetch()
	if err != nil || conf.Notification.Slack.WebhookUrl == "" {
		return
	}

	go func(url, project string) {
		if err := SlackNotification(context.Background(), url, project, systemError); err != nil {
			logrus.WithError(err).Warn("failed to send slack notification")
		}
	}(conf.Notification.Slack.WebhookUrl, conf.ProjectName)
}
