package repository

import (
	"github.com/chroniclehq/chroniclebackend/models"
	"gorm.io/gorm"
)

type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

func (r *GormRoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, id).Error
	return &role, err
}

func (r *GormRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	return &role, err
}

func (r *GormRoleRepository) ListAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Find(&roles).Error
	return roles, err
}

func (r *GormRoleRepository) Update(role *models.Role) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(role).Error
}

func (r *GormRoleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// delete associated UserRole entries (assignments of this role to users)
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		// delete the role itself
		return tx.Delete(&models.Role{}, id).Error
	})
}

func (r *GormRoleRepository) SetRoleGlobalPermissions(roleID uint, permissions []string) error {
	return r.db.Model(&models.Role{}).Where("id = ?", roleID).Update("global_permissions", permissions).Error
}

func (r *GormRoleRepository) FindUsersByRoleID(roleID uint) ([]models.User, error) {
	var role models.Role

	err := r.db.Preload("Users").First(&role, roleID).Error
	if err != nil {
		return nil, err
	}

	users := make([]models.User, len(role.Users))
	for i, userPtr := range role.Users {
		if userPtr != nil {
			users[i] = *userPtr
		}
	}
	return users, nil
}
