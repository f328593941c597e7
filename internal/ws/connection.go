package ws

import (
	"context"
	"errors"
	"sync"

	"perepiska/internal/models"
)

type wsConnection interface {
	Close() error
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
}

type viewHub interface {
	Join() (string, chan models.ServerMessage)
	Leave(viewerID string)
}

// Dispatcher applies view actions to the chat state.
type Dispatcher interface {
	Select(id string) (models.Conversation, error)
	SendText(text string) (models.Message, error)
}

type Connection struct {
	ws         wsConnection
	hub        viewHub
	dispatcher Dispatcher
	viewerID   string
	fromClient chan models.ClientMessage
	fromServer chan models.ServerMessage
	errorCh    chan error
}

func NewConnection(
	hub viewHub,
	dispatcher Dispatcher,
	ws wsConnection,
) *Connection {
	viewerID, events := hub.Join()
	return &Connection{
		ws:         ws,
		hub:        hub,
		dispatcher: dispatcher,
		viewerID:   viewerID,
		fromClient: make(chan models.ClientMessage),
		fromServer: events,
		errorCh:    make(chan error, 2),
	}
}

func (c *Connection) Handle(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		close(c.fromClient)
		close(c.errorCh)
		c.hub.Leave(c.viewerID)
	}()

	var wg sync.WaitGroup
	wg.Go(func() {
		c.errorCh <- c.pumpMessages(ctx)
		cancel()
	})

	wg.Go(func() {
		c.errorCh <- c.mainLoop(ctx)
		cancel()
	})

	var err error
	select {
	case err = <-c.errorCh:
	case <-ctx.Done():
	}
	_ = c.ws.Close()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (c *Connection) pumpMessages(ctx context.Context) error {
	for {
		var msg models.ClientMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			return err
		}
		select {
		case c.fromClient <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Connection) mainLoop(ctx context.Context) error {
	for {
		select {
		case msg := <-c.fromClient:
			if err := c.processClientMessage(msg); err != nil {
				return err
			}
		case msg, ok := <-c.fromServer:
			if !ok {
				return nil
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// processClientMessage applies one view action. Rejected actions are reported back
// to the view and don't close the connection.
func (c *Connection) processClientMessage(msg models.ClientMessage) error {
	var err error
	switch msg.Type {
	case models.ClientMessageTypeSelect:
		if _, err = c.dispatcher.Select(msg.ChatID); err == nil {
			return c.ws.WriteJSON(models.ServerMessage{
				Type:   models.ServerMessageTypeSelect,
				ChatID: msg.ChatID,
			})
		}
	case models.ClientMessageTypeSend:
		_, err = c.dispatcher.SendText(msg.Content)
	default:
		return nil
	}

	if err != nil {
		return c.ws.WriteJSON(models.ServerMessage{
			Type:    models.ServerMessageTypeError,
			ChatID:  msg.ChatID,
			Message: err.Error(),
		})
	}
	return nil
}
