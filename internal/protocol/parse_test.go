package protocol

import (
	"testing"

	"github.com/go-test/deep"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		chunk string
		want  Message
	}{
		"refresh": {
			chunk: "R",
			want:  Message{Kind: KindRefresh},
		},
		"create": {
			chunk: "C:Arena",
			want:  Message{Kind: KindCreateRoom, Name: "Arena"},
		},
		"create_empty_name": {
			chunk: "C:",
			want:  Message{Kind: KindCreateRoom},
		},
		"create_bare": {
			chunk: "C",
			want:  Message{Kind: KindCreateRoom},
		},
		"exit": {
			chunk: "E",
			want:  Message{Kind: KindExitRoom},
		},
		"join": {
			chunk: "J17",
			want:  Message{Kind: KindJoinRoom, OwnerID: 17},
		},
		"join_not_a_number": {
			chunk: "Jxyz",
			want:  Message{Kind: KindUnknown},
		},
		"join_zero": {
			chunk: "J0",
			want:  Message{Kind: KindUnknown},
		},
		"join_negative": {
			chunk: "J-3",
			want:  Message{Kind: KindUnknown},
		},
		"join_missing_id": {
			chunk: "J",
			want:  Message{Kind: KindUnknown},
		},
		"opponent_status": {
			chunk: "U",
			want:  Message{Kind: KindOpponentStatus},
		},
		"toggle_ready": {
			chunk: "prepare",
			want:  Message{Kind: KindToggleReady},
		},
		"choose_black": {
			chunk: "color1",
			want:  Message{Kind: KindChooseColor, Black: true},
		},
		"choose_white": {
			chunk: "color0",
			want:  Message{Kind: KindChooseColor},
		},
		"relay_move": {
			chunk: "OMe3",
			want:  Message{Kind: KindRelay, Raw: []byte("OMe3")},
		},
		"relay_undo": {
			chunk: "OB1",
			want:  Message{Kind: KindRelay, Raw: []byte("OB1")},
		},
		"relay_chat": {
			chunk: "ONhello there",
			want:  Message{Kind: KindRelay, Raw: []byte("ONhello there")},
		},
		"relay_opponent_left": {
			chunk: "OR",
			want:  Message{Kind: KindRelay, Raw: []byte("OR")},
		},
		"relay_surrender": {
			chunk: "OS",
			want:  Message{Kind: KindRelay, Raw: []byte("OS")},
		},
		"relay_unknown_tag": {
			chunk: "OX12",
			want:  Message{Kind: KindUnknown},
		},
		"relay_missing_tag": {
			chunk: "O",
			want:  Message{Kind: KindUnknown},
		},
		"empty": {
			chunk: "",
			want:  Message{Kind: KindUnknown},
		},
		"garbage": {
			chunk: "hello world",
			want:  Message{Kind: KindUnknown},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Parse([]byte(tt.chunk))
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}
