package main

import "farmledger/notify"

// Request DTOs for endpoints whose body is not an entity document.

type smsReq struct {
	Type          notify.Kind         `json:"type"`
	Data          notify.TemplateData `json:"data"`
	CustomMessage string              `json:"customMessage,omitempty"`
}

type healthResp struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Upstream bool   `json:"upstream"`
	SMS      string `json:"sms"`
}
