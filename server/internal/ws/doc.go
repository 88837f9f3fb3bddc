// Package ws streams live containers to WebSocket subscribers.
//
// Every frame is a binary message holding one encoded
// GetLiveContainersResponse; decode it with wire.GetLiveContainersResponse.Unmarshal
// and marshal.UnmarshalLiveContainers. A subscriber receives the current
// listing right after connecting and afterwards only when its listing changes,
// checked every stream.interval. Connecting with ?component=NAME restricts the
// listing to one component.
//
// The server mounts the hub at /ws/containers.
package ws
