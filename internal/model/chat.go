package model

import "time"

// 聊天记录中的两类发言者。
const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// ChatTurn 代表会话聊天记录中的一条消息。
// 每次成功的聊天交互追加一对 (user, bot) 记录；记录只在会话生命周期内保留。
type ChatTurn struct {
	Speaker   string    `json:"speaker"` // "user" 或 "bot"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
