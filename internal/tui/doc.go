// Package tui implements the interactive terminal interface of the
// Artesanato de Mirage marketplace client.
//
// Built on Bubble Tea, it follows the Elm architecture: AppModel routes
// messages to the active screen and performs screen transitions.
//
// # Screens
//
//   - Home: main menu, with the logged-in artisan's name in the header
//     ("Sua Conta" without a session)
//   - Login, Cadastro, Produto: form screens
//   - Produtos: the marketplace listing, or the artisan's own products
//   - Descobrir: mDNS search for a backend on the local network
//
// All screens are wrapped by RenderApplicationContainer for a consistent
// header, content area and context-sensitive footer.
//
// # Forms
//
// FormModel is generic over the form snapshot type. Each mounted form owns a
// form.State and a submit.Coordinator; leaving the screen closes both, which
// releases photo previews and cancels pending banner and redirect timers.
//
// Coordinator events are produced on request and timer goroutines. They
// reach the program through Program.Send and are applied in the update loop
// only, in sequence order; events of a torn-down form are dropped.
//
// # Usage
//
//	err := tui.Run(ctx, tui.Deps{Client: client, Store: store}, tui.ScreenHome)
package tui
