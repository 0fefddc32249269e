package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Detachm/mini-quant-proj/internal/market"
	"github.com/Detachm/mini-quant-proj/internal/pipe"
)

// Binance sometimes wraps payloads into {stream, data} and sometimes sends
// them directly (on the /ws endpoint), so both shapes are handled.
type binanceEnvelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type binanceAggTrade struct {
	Event        string `json:"e"`
	Symbol       string `json:"s"`
	AggTradeID   int64  `json:"a"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

func (f *Feed) runBinance(ctx context.Context, q *pipe.Queue) error {
	if f.symbol == "" {
		return fmt.Errorf("binance feed requires a symbol")
	}

	url := fmt.Sprintf("%s/ws/%s@aggTrade", f.wsBase, strings.ToLower(f.symbol))
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	f.log.Info().Str("provider", ProviderBinance).Str("symbol", f.symbol).Msg("connected market data feed")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					f.log.Warn().Err(err).Msg("binance ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.log.Info().Msg("binance stream closed")
				return nil
			}
			return err
		}
		if msgType != websocket.TextMessage {
			continue
		}

		trade, ok := f.decodeAggTrade(message)
		if !ok {
			continue
		}
		f.push(q, trade)
	}
}

// decodeAggTrade normalizes one raw message. Unparseable messages and fields
// are dropped here so a malformed price never reaches the strategy as a
// sentinel zero.
func (f *Feed) decodeAggTrade(message []byte) (market.Trade, bool) {
	raw := message
	var env binanceEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		f.log.Warn().Err(err).Msg("failed to decode binance message")
		return market.Trade{}, false
	}
	if len(env.Data) > 0 {
		raw = env.Data
	}

	var agg binanceAggTrade
	if err := json.Unmarshal(raw, &agg); err != nil {
		f.log.Warn().Err(err).Msg("failed to decode binance aggTrade")
		return market.Trade{}, false
	}
	px, err := strconv.ParseFloat(agg.Price, 64)
	if err != nil {
		f.log.Warn().Err(err).Str("price", agg.Price).Msg("invalid price from binance")
		return market.Trade{}, false
	}
	qty, err := strconv.ParseFloat(agg.Quantity, 64)
	if err != nil {
		f.log.Warn().Err(err).Str("qty", agg.Quantity).Msg("invalid quantity from binance")
		return market.Trade{}, false
	}

	symbol := strings.ToUpper(agg.Symbol)
	if symbol == "" {
		symbol = f.symbol
	}
	return market.Trade{
		Symbol:     symbol,
		TradeID:    agg.AggTradeID,
		Price:      px,
		Qty:        qty,
		Ts:         time.UnixMilli(agg.TradeTime),
		BuyerMaker: agg.IsBuyerMaker,
	}, true
}
