// Package apperrors defines the closed set of failures a Jackut operation can report.
//
// Every failure is an *Error carrying a Kind plus the context that produced it. Error()
// renders the fixed user-facing message; errors.Is matches on Kind (and Relation when the
// target sets one), so callers can branch without comparing strings.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates failure categories.
type Kind int

const (
	KindUnknown Kind = iota
	KindUserNotFound
	KindSessionNotFound
	KindDuplicateUser
	KindInvalidCredential
	KindNotFilledAttribute
	KindDuplicateCommunity
	KindCommunityNotFound
	KindNotMember
	KindAlreadyMember
	KindNotManager
	KindManagerCannotLeave
	KindSelfReference
	KindAlreadyAdded
	KindAlreadyFriends
	KindAlreadyPending
	KindEnemyBlock
	KindNotInRelation
	KindNoPendingRequest
	KindNoMessages
	KindPersistenceFailure
)

var kindNames = map[Kind]string{
	KindUnknown:            "Unknown",
	KindUserNotFound:       "UserNotFound",
	KindSessionNotFound:    "SessionNotFound",
	KindDuplicateUser:      "DuplicateUser",
	KindInvalidCredential:  "InvalidCredential",
	KindNotFilledAttribute: "NotFilledAttribute",
	KindDuplicateCommunity: "DuplicateCommunity",
	KindCommunityNotFound:  "CommunityNotFound",
	KindNotMember:          "NotMember",
	KindAlreadyMember:      "AlreadyMember",
	KindNotManager:         "NotManager",
	KindManagerCannotLeave: "ManagerCannotLeave",
	KindSelfReference:      "SelfReference",
	KindAlreadyAdded:       "AlreadyAdded",
	KindAlreadyFriends:     "AlreadyFriends",
	KindAlreadyPending:     "AlreadyPending",
	KindEnemyBlock:         "EnemyBlock",
	KindNotInRelation:      "NotInRelation",
	KindNoPendingRequest:   "NoPendingRequest",
	KindNoMessages:         "NoMessages",
	KindPersistenceFailure: "PersistenceFailure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Relation qualifies kinds shared by several relationship types.
type Relation string

const (
	RelationNone             Relation = ""
	RelationFriend           Relation = "friend"
	RelationIdol             Relation = "idol"
	RelationCrush            Relation = "crush"
	RelationEnemy            Relation = "enemy"
	RelationMessage          Relation = "message"
	RelationCommunityMessage Relation = "community-message"
)

// Credential fields reported by KindInvalidCredential.
const (
	FieldLogin    = "login"
	FieldPassword = "senha"
)

// Error is the single concrete failure type.
type Error struct {
	Kind      Kind
	Relation  Relation
	Field     string // credential field for KindInvalidCredential
	Login     string // login the operation was aimed at
	Name      string // display name quoted in enemy-block messages
	Community string
	Attribute string
	Err       error
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Err != nil {
		return strings.TrimSuffix(msg, ".") + ": " + e.Err.Error()
	}
	return msg
}

// Message returns the user-facing text without the wrapped cause.
func (e *Error) Message() string {
	return e.message()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. A target with a Relation only
// matches errors with that relation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Relation == RelationNone || t.Relation == e.Relation
}

func (e *Error) message() string {
	switch e.Kind {
	case KindUserNotFound, KindSessionNotFound:
		return "Usuário não cadastrado."
	case KindDuplicateUser:
		return "Conta com esse nome já existe."
	case KindInvalidCredential:
		switch e.Field {
		case FieldLogin:
			return "Login inválido."
		case FieldPassword:
			return "Senha inválida."
		}
		return "Login ou senha inválidos."
	case KindNotFilledAttribute:
		return "Atributo não preenchido."
	case KindDuplicateCommunity:
		return "Comunidade com esse nome já existe."
	case KindCommunityNotFound:
		return "Comunidade não existe."
	case KindNotMember:
		return "Usuário não é membro da comunidade."
	case KindAlreadyMember:
		return "Usuario já faz parte dessa comunidade."
	case KindNotManager:
		return "Apenas o gerente pode editar a comunidade."
	case KindManagerCannotLeave:
		return "O gerente não pode sair da comunidade."
	case KindSelfReference:
		switch e.Relation {
		case RelationFriend:
			return "Usuário não pode adicionar a si mesmo como amigo."
		case RelationIdol:
			return "Usuário não pode ser fã de si mesmo."
		case RelationCrush:
			return "Usuário não pode ser paquera de si mesmo."
		case RelationEnemy:
			return "Usuário não pode ser inimigo de si mesmo."
		case RelationMessage:
			return "Usuário não pode enviar recado para si mesmo."
		}
		return "Usuário não pode referenciar a si mesmo."
	case KindAlreadyAdded:
		switch e.Relation {
		case RelationIdol:
			return "Usuário já está adicionado como ídolo."
		case RelationCrush:
			return "Usuário já está adicionado como paquera."
		case RelationEnemy:
			return "Usuário já está adicionado como inimigo."
		}
		return "Usuário já está adicionado como amigo."
	case KindAlreadyFriends:
		return "Usuário já está adicionado como amigo."
	case KindAlreadyPending:
		return "Usuário já está adicionado como amigo, esperando aceitação do convite."
	case KindEnemyBlock:
		return fmt.Sprintf("Função inválida: %s é seu inimigo.", e.Name)
	case KindNotInRelation:
		switch e.Relation {
		case RelationIdol:
			return "Usuário não é seu ídolo"
		case RelationCrush:
			return "Usuário não é seu paquera"
		case RelationEnemy:
			return "Usuário não é seu inimigo"
		}
		return "Usuário não está nessa relação"
	case KindNoPendingRequest:
		return "Não há convite de amizade pendente deste usuário."
	case KindNoMessages:
		if e.Relation == RelationCommunityMessage {
			return "Não há mensagens."
		}
		return "Não há recados."
	case KindPersistenceFailure:
		return "Falha ao persistir o sistema."
	}
	return "Erro desconhecido."
}

// Sentinels for errors.Is. They carry no context and are never returned directly.
var (
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
	ErrSessionNotFound    = &Error{Kind: KindSessionNotFound}
	ErrDuplicateUser      = &Error{Kind: KindDuplicateUser}
	ErrInvalidCredential  = &Error{Kind: KindInvalidCredential}
	ErrNotFilledAttribute = &Error{Kind: KindNotFilledAttribute}
	ErrDuplicateCommunity = &Error{Kind: KindDuplicateCommunity}
	ErrCommunityNotFound  = &Error{Kind: KindCommunityNotFound}
	ErrNotMember          = &Error{Kind: KindNotMember}
	ErrAlreadyMember      = &Error{Kind: KindAlreadyMember}
	ErrNotManager         = &Error{Kind: KindNotManager}
	ErrManagerCannotLeave = &Error{Kind: KindManagerCannotLeave}
	ErrSelfReference      = &Error{Kind: KindSelfReference}
	ErrAlreadyAdded       = &Error{Kind: KindAlreadyAdded}
	ErrAlreadyFriends     = &Error{Kind: KindAlreadyFriends}
	ErrAlreadyPending     = &Error{Kind: KindAlreadyPending}
	ErrEnemyBlock         = &Error{Kind: KindEnemyBlock}
	ErrNotInRelation      = &Error{Kind: KindNotInRelation}
	ErrNoPendingRequest   = &Error{Kind: KindNoPendingRequest}
	ErrNoMessages         = &Error{Kind: KindNoMessages}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure}
)

func UserNotFound(login string) *Error {
	return &Error{Kind: KindUserNotFound, Login: login}
}

func SessionNotFound() *Error {
	return &Error{Kind: KindSessionNotFound}
}

func DuplicateUser(login string) *Error {
	return &Error{Kind: KindDuplicateUser, Login: login}
}

// InvalidCredential reports a rejected login or password. An empty field means the
// login/password pair did not match.
func InvalidCredential(field, login string) *Error {
	return &Error{Kind: KindInvalidCredential, Field: field, Login: login}
}

func NotFilledAttribute(login, attribute string) *Error {
	return &Error{Kind: KindNotFilledAttribute, Login: login, Attribute: attribute}
}

func DuplicateCommunity(name string) *Error {
	return &Error{Kind: KindDuplicateCommunity, Community: name}
}

func CommunityNotFound(name string) *Error {
	return &Error{Kind: KindCommunityNotFound, Community: name}
}

func NotMember(login, community string) *Error {
	return &Error{Kind: KindNotMember, Login: login, Community: community}
}

func AlreadyMember(login, community string) *Error {
	return &Error{Kind: KindAlreadyMember, Login: login, Community: community}
}

func NotManager(login, community string) *Error {
	return &Error{Kind: KindNotManager, Login: login, Community: community}
}

func ManagerCannotLeave(login, community string) *Error {
	return &Error{Kind: KindManagerCannotLeave, Login: login, Community: community}
}

func SelfReference(rel Relation, login string) *Error {
	return &Error{Kind: KindSelfReference, Relation: rel, Login: login}
}

func AlreadyAdded(rel Relation, login string) *Error {
	return &Error{Kind: KindAlreadyAdded, Relation: rel, Login: login}
}

func AlreadyFriends(login string) *Error {
	return &Error{Kind: KindAlreadyFriends, Relation: RelationFriend, Login: login}
}

func AlreadyPending(login string) *Error {
	return &Error{Kind: KindAlreadyPending, Relation: RelationFriend, Login: login}
}

// EnemyBlock reports that login (display name name) lists the actor as an enemy.
func EnemyBlock(rel Relation, login, name string) *Error {
	return &Error{Kind: KindEnemyBlock, Relation: rel, Login: login, Name: name}
}

func NotInRelation(rel Relation, login string) *Error {
	return &Error{Kind: KindNotInRelation, Relation: rel, Login: login}
}

func NoPendingRequest(login string) *Error {
	return &Error{Kind: KindNoPendingRequest, Relation: RelationFriend, Login: login}
}

func NoMessages(rel Relation) *Error {
	return &Error{Kind: KindNoMessages, Relation: rel}
}

func PersistenceFailure(err error) *Error {
	return &Error{Kind: KindPersistenceFailure, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing text for err. Errors outside this package fall back
// to err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
