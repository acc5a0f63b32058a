package model

// PlayerID дескриптор игрока в движке хоста. Стабилен и уникален в пределах
// матча. Ноль означает "нет игрока" (например, смерть от окружения).
type PlayerID int32

// NoPlayer нулевой дескриптор.
const NoPlayer PlayerID = 0

// Valid сообщает, ссылается ли id на игрока вообще.
// Подключён ли игрок до сих пор, не проверяет.
func (id PlayerID) Valid() bool {
	return id != NoPlayer
}

// Message локализуемый текст: ключ, известный хосту, и позиционные
// аргументы, которые подставляет хост.
type Message struct {
	Key  string `msgpack:"k"`
	Args []any  `msgpack:"a,omitempty"`
}

// Msg создаёт Message.
func Msg(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}
