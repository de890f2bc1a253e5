package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"user not found", UserNotFound("bob"), "Usuário não cadastrado."},
		{"session not found", SessionNotFound(), "Usuário não cadastrado."},
		{"invalid login", InvalidCredential(FieldLogin, "ab"), "Login inválido."},
		{"invalid password", InvalidCredential(FieldPassword, "alice"), "Senha inválida."},
		{"bad pair", InvalidCredential("", "alice"), "Login ou senha inválidos."},
		{"self friend", SelfReference(RelationFriend, "a"), "Usuário não pode adicionar a si mesmo como amigo."},
		{"self message", SelfReference(RelationMessage, "a"), "Usuário não pode enviar recado para si mesmo."},
		{"idol twice", AlreadyAdded(RelationIdol, "b"), "Usuário já está adicionado como ídolo."},
		{"pending", AlreadyPending("b"), "Usuário já está adicionado como amigo, esperando aceitação do convite."},
		{"enemy", EnemyBlock(RelationFriend, "dora", "Dora"), "Função inválida: Dora é seu inimigo."},
		{"not crush", NotInRelation(RelationCrush, "b"), "Usuário não é seu paquera"},
		{"no recados", NoMessages(RelationMessage), "Não há recados."},
		{"no community messages", NoMessages(RelationCommunityMessage), "Não há mensagens."},
		{"manager leave", ManagerCannotLeave("a", "cats"), "O gerente não pode sair da comunidade."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsMatchesKindAndRelation(t *testing.T) {
	err := fmt.Errorf("adding friend: %w", SelfReference(RelationFriend, "alice"))

	assert.True(t, errors.Is(err, ErrSelfReference))
	assert.True(t, errors.Is(err, &Error{Kind: KindSelfReference, Relation: RelationFriend}))
	assert.False(t, errors.Is(err, &Error{Kind: KindSelfReference, Relation: RelationIdol}))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, KindSelfReference, KindOf(err))
}

func TestPersistenceFailureUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := PersistenceFailure(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "Falha ao persistir o sistema: disk full", err.Error())
	assert.Equal(t, "Falha ao persistir o sistema.", MessageOf(err))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
