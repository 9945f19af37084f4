package ruleflow

import (
	"github.com/codeware/chatbot-backend/internal/entity"
	"go.uber.org/zap"
)

// ZapObserver logs matcher diagnostics. Checking every rule is chatty, so
// it logs at debug; a fired rule is logged at info.
type ZapObserver struct {
	logger *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger}
}

func (o *ZapObserver) RuleChecked(rule entity.KeywordRule) {
	o.logger.Debug("trigger rule checked",
		zap.String("keyword", rule.Keyword),
		zap.String("trigger_id", rule.TriggerID),
	)
}

func (o *ZapObserver) RuleMatched(rule entity.KeywordRule) {
	o.logger.Info("trigger rule matched",
		zap.String("keyword", rule.Keyword),
		zap.String("trigger_id", rule.TriggerID),
	)
}
