package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

// performAction 先校验后写库，唯一键冲突归一为重复操作
func performAction(checkFunc func() error, repoFunc func() error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	if err := repoFunc(); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}
	return nil
}

// revokeAction 撤销操作，未命中任何行时归一为重复操作
func revokeAction(checkFunc func() error, repoFunc func() (int64, error)) error {
	if err := checkFunc(); err != nil {
		return err
	}
	rows, err := repoFunc()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActionDuplicate
	}
	return nil
}
