package auth

import (
	"context"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/templates/layouts"
	"github.com/acebook/dashboard/internal/templates/markup"
)

func LoginPage(data LoginData) templ.Component {
	title := "Bem-vindo"
	description := "Use seu email cadastrado para acessar o Acebook."
	action := "/login"
	emailLabel := "Email"
	if data.Admin {
		title = "Bem-vindo, administrador"
		description = "Faça seu login e gerencie quadras, alunos e reservas."
		action = "/admin/login"
		emailLabel = "Email corporativo"
	}
	return layouts.Auth(title, description, LoginForm(data, action, emailLabel))
}

func LoginForm(data LoginData, action, emailLabel string) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<form method="post"`)
		w.Attr("action", action)
		w.Raw(`>`)
		w.Component(ctx, layouts.Alert("error", data.Error))
		w.Component(ctx, layouts.Alert("notice", data.Notice))
		w.Raw(`<label for="email">`)
		w.Text(emailLabel)
		w.Raw(`</label><input id="email" name="email" type="text" required`)
		w.Attr("value", data.Email)
		w.Raw(`><label for="password">Senha</label>`)
		w.Raw(`<input id="password" name="password" type="password" required>`)
		w.Raw(`<button type="submit">Entrar</button></form>`)
		if data.Admin {
			w.Raw(`<p><a href="/register/admin">Criar conta de administrador</a> · <a href="/login">Sou jogador</a></p>`)
		} else {
			w.Raw(`<p><a href="/register/player">Criar conta</a> · <a href="/register/admin">Criar clube</a></p>`)
		}
	})
}

func RegisterPage(data RegisterData) templ.Component {
	title := "Criar conta"
	description := "Cadastre-se no clube usando o código fornecido pelo administrador."
	if data.Admin {
		title = "Criar clube"
		description = "Cadastre seu clube e comece a gerenciar quadras e reservas."
	}
	return layouts.Auth(title, description, RegisterForm(data))
}

func RegisterForm(data RegisterData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		action := "/register/player"
		if data.Admin {
			action = "/register/admin"
		}
		w.Raw(`<form method="post"`)
		w.Attr("action", action)
		w.Raw(`>`)
		w.Component(ctx, layouts.Alert("error", data.Error))
		if !data.Admin {
			field(w, "name", "Nome", "text", data.Name)
		}
		field(w, "email", "Email", "email", data.Email)
		if data.Admin {
			field(w, "club_name", "Nome do clube", "text", data.ClubName)
		}
		field(w, "club_slug", "Código do clube", "text", data.ClubSlug)
		field(w, "password", "Senha", "password", "")
		field(w, "confirm_password", "Confirmar senha", "password", "")
		w.Raw(`<button type="submit">Cadastrar</button></form><p><a href="/">Voltar</a></p>`)
	})
}

func field(w *markup.Writer, name, label, kind, value string) {
	w.Raw(`<label`)
	w.Attr("for", name)
	w.Raw(`>`)
	w.Text(label)
	w.Raw(`</label><input required`)
	w.Attr("id", name)
	w.Attr("name", name)
	w.Attr("type", kind)
	if value != "" {
		w.Attr("value", value)
	}
	w.Raw(`>`)
}
